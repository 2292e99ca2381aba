package collabmock

import (
	"context"
	"errors"
	"testing"

	"vehicleloan/internal/domain/agent"
)

func TestInvoker_UsesProvidedFunc(t *testing.T) {
	ctx := context.Background()
	want := &agent.Envelope{Success: true}
	m := &Invoker{
		InvokeFn: func(gotCtx context.Context, req any) (*agent.Envelope, error) {
			if gotCtx != ctx {
				t.Fatalf("Invoke ctx mismatch")
			}
			if req != "payload" {
				t.Fatalf("Invoke arg mismatch: %v", req)
			}
			return want, nil
		},
	}
	got, err := m.Invoke(ctx, "payload")
	if err != nil || got != want {
		t.Fatalf("Invoke: got (%v, %v)", got, err)
	}
	if n := len(m.Requests()); n != 1 {
		t.Fatalf("Requests: want 1, got %d", n)
	}
}

func TestInvoker_DefaultIsCanceled(t *testing.T) {
	m := &Invoker{}
	if _, err := m.Invoke(context.Background(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("default Invoke: want context.Canceled, got %v", err)
	}
}

func TestReturning(t *testing.T) {
	boom := errors.New("boom")
	m := Returning(nil, boom)
	if _, err := m.Invoke(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("Returning: want %v, got %v", boom, err)
	}
}
