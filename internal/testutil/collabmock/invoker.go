package collabmock

import (
	"context"
	"sync"

	"vehicleloan/internal/domain/agent"
)

// Invoker is a function-backed mock that satisfies agent.Invoker and records
// the requests it receives.
type Invoker struct {
	InvokeFn func(ctx context.Context, request any) (*agent.Envelope, error)

	mu       sync.Mutex
	requests []any
}

func (m *Invoker) Invoke(ctx context.Context, request any) (*agent.Envelope, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	m.mu.Unlock()
	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, request)
	}
	return nil, context.Canceled
}

// Requests returns a copy of every request seen so far.
func (m *Invoker) Requests() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.requests))
	copy(out, m.requests)
	return out
}

// Returning builds an Invoker that always answers with env and err.
func Returning(env *agent.Envelope, err error) *Invoker {
	return &Invoker{InvokeFn: func(context.Context, any) (*agent.Envelope, error) { return env, err }}
}
