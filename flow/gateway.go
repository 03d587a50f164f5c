package flow

import "context"

type SubmissionResult struct {
	Success      bool           `json:"success"`
	Data         map[string]any `json:"data"`
	ErrorMessage string         `json:"errorMessage"`
}

// Gateway is the backend workflow API a submitting step hands its payload
// to. It is injected so tests can stub it; the machine never constructs one.
type Gateway interface {
	Submit(ctx context.Context, wizard string, stepId string, payload map[string]any) (*SubmissionResult, error)
}

type GatewayFunc func(ctx context.Context, wizard string, stepId string, payload map[string]any) (*SubmissionResult, error)

func (f GatewayFunc) Submit(ctx context.Context, wizard string, stepId string, payload map[string]any) (*SubmissionResult, error) {
	return f(ctx, wizard, stepId, payload)
}
