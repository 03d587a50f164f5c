package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/budstack/stepflow/flow"
)

type submitRequest struct {
	Wizard  string         `json:"wizard"`
	Step    string         `json:"step"`
	Payload map[string]any `json:"payload"`
}

var _ flow.Gateway = new(HttpGateway)

// HttpGateway posts step payloads to the backend workflow API as JSON. A
// non-2xx response or an undecodable body counts as a failed submission.
type HttpGateway struct {
	url    string
	client *http.Client
}

func NewHttpGateway(url string, timeout time.Duration) *HttpGateway {
	return &HttpGateway{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *HttpGateway) Submit(ctx context.Context, wizard string, stepId string, payload map[string]any) (*flow.SubmissionResult, error) {
	body, err := json.Marshal(submitRequest{
		Wizard:  wizard,
		Step:    stepId,
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &flow.SubmissionResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("workflow api returned status %d", resp.StatusCode),
		}, nil
	}
	var result flow.SubmissionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
