// Package agent describes the request/response contract shared by the two
// external decisioning collaborators (loan calculator, loan processor).
package agent

import (
	"context"
	"encoding/json"
)

// Envelope is the collaborator reply. Response.Result is either a JSON
// object or a string holding an encoded object.
type Envelope struct {
	Success  bool     `json:"success"`
	Response Response `json:"response"`
	Error    string   `json:"error,omitempty"`
}

type Response struct {
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Invoker sends one request to a collaborator and waits for its reply.
// A non-nil error means the exchange itself did not complete.
type Invoker interface {
	Invoke(ctx context.Context, request any) (*Envelope, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, request any) (*Envelope, error)

func (f InvokerFunc) Invoke(ctx context.Context, request any) (*Envelope, error) {
	return f(ctx, request)
}
