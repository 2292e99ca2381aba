// Package collaborator talks to the decisioning agents over HTTP.
package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"vehicleloan/internal/domain/agent"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	log        *zap.Logger
}

// NewClient builds a client for the agent endpoint at baseURL. A zero
// timeout means none; the caller's context still applies.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("vehicleloan/collaborator"),
		log:        log.Named("collaborator"),
	}
}

// Agent binds the client to one agent id.
func (c *Client) Agent(agentID string) agent.Invoker {
	return agent.InvokerFunc(func(ctx context.Context, request any) (*agent.Envelope, error) {
		return c.Invoke(ctx, agentID, request)
	})
}

type invokeBody struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// Invoke sends request, JSON-encoded as the message text, to agentID and
// decodes the envelope. Non-2xx answers are transport errors.
func (c *Client) Invoke(ctx context.Context, agentID string, request any) (*agent.Envelope, error) {
	ctx, span := c.tracer.Start(ctx, "agent.invoke", trace.WithAttributes(attribute.String("agent.id", agentID)))
	defer span.End()

	env, err := c.do(ctx, agentID, request)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn("agent call failed", zap.String("agent_id", agentID), zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Bool("agent.success", env.Success))
	return env, nil
}

func (c *Client) do(ctx context.Context, agentID string, request any) (*agent.Envelope, error) {
	msg, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent request: %w", err)
	}
	body, err := json.Marshal(invokeBody{Message: string(msg), AgentID: agentID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call agent: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read agent response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	var env agent.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode agent response: %w", err)
	}
	return &env, nil
}
