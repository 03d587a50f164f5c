package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/budstack/stepflow/flow"
	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/persistence/inmem"
	"github.com/budstack/stepflow/registry"
	"github.com/stretchr/testify/require"
)

const wizardJson = `{
	"name": "guardrail-create",
	"rootStep": "classification",
	"steps": [
		{
			"id": "classification",
			"requiredFields": ["category", "severity"],
			"next": {"default": "review"}
		},
		{
			"id": "review",
			"previous": "classification",
			"submit": true
		}
	]
}`

func newTestServer(t *testing.T, gw flow.Gateway) *httptest.Server {
	t.Helper()
	storage := inmem.NewInmemStorage(time.Minute)
	reg := registry.NewRegistry(storage)
	sessionService := flow.NewSessionService(reg, storage, gw, time.Minute)
	server, err := NewServer(0, reg, sessionService)
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func okGateway() flow.Gateway {
	return flow.GatewayFunc(func(ctx context.Context, wizard string, stepId string, payload map[string]any) (*flow.SubmissionResult, error) {
		return &flow.SubmissionResult{Success: true, Data: map[string]any{"guardrail_id": "gr-123"}}, nil
	})
}

func TestWizardMetadataEndpoints(t *testing.T) {
	ts := newTestServer(t, okGateway())

	resp := postJSON(t, ts.URL+"/metadata/wizard", wizardJson)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/metadata/wizard/guardrail-create")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wz := decodeBody[model.Wizard](t, resp)
	require.Equal(t, "classification", wz.RootStep)

	resp, err = http.Get(ts.URL + "/metadata/wizard/unknown")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSaveWizardRejectsInvalidDefinition(t *testing.T) {
	ts := newTestServer(t, okGateway())

	broken := `{"name": "broken", "rootStep": "missing", "steps": [{"id": "only"}]}`
	resp := postJSON(t, ts.URL+"/metadata/wizard", broken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, okGateway())
	resp := postJSON(t, ts.URL+"/metadata/wizard", wizardJson)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/session", `{"wizard": "guardrail-create", "input": {"category": "hate_speech"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	execution := decodeBody[model.SessionExecution](t, resp)
	require.NotEmpty(t, execution.Id)
	sessionBase := fmt.Sprintf("%s/session/guardrail-create/%s", ts.URL, execution.Id)

	// advance without severity fails validation
	resp = postJSON(t, sessionBase+"/advance", "{}")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outcome := decodeBody[flow.AdvanceOutcome](t, resp)
	require.Equal(t, flow.ADVANCE_INVALID, outcome.Status)
	require.Equal(t, model.ERROR_REQUIRED, outcome.Errors["severity"])

	resp = postJSON(t, sessionBase+"/field", `{"name": "severity", "value": 5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, sessionBase+"/advance", "{}")
	outcome = decodeBody[flow.AdvanceOutcome](t, resp)
	require.Equal(t, flow.ADVANCE_OK, outcome.Status)
	require.Equal(t, "review", outcome.Step)

	// submitting step completes the wizard
	resp = postJSON(t, sessionBase+"/advance", "{}")
	outcome = decodeBody[flow.AdvanceOutcome](t, resp)
	require.Equal(t, flow.ADVANCE_COMPLETED, outcome.Status)

	resp, err := http.Get(sessionBase)
	require.NoError(t, err)
	fetched := decodeBody[model.SessionExecution](t, resp)
	require.True(t, fetched.Completed)
	require.Equal(t, "gr-123", fetched.Payload["guardrail_id"])

	req, err := http.NewRequest(http.MethodDelete, sessionBase, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(sessionBase)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSubmissionFailureSurfacedToClient(t *testing.T) {
	failing := flow.GatewayFunc(func(ctx context.Context, wizard string, stepId string, payload map[string]any) (*flow.SubmissionResult, error) {
		return &flow.SubmissionResult{Success: false, ErrorMessage: "Network timeout"}, nil
	})
	ts := newTestServer(t, failing)
	resp := postJSON(t, ts.URL+"/metadata/wizard", wizardJson)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/session", `{"wizard": "guardrail-create", "input": {"category": "hate_speech", "severity": 5}}`)
	execution := decodeBody[model.SessionExecution](t, resp)
	sessionBase := fmt.Sprintf("%s/session/guardrail-create/%s", ts.URL, execution.Id)

	resp = postJSON(t, sessionBase+"/advance", "{}")
	outcome := decodeBody[flow.AdvanceOutcome](t, resp)
	require.Equal(t, flow.ADVANCE_OK, outcome.Status)

	resp = postJSON(t, sessionBase+"/advance", "{}")
	outcome = decodeBody[flow.AdvanceOutcome](t, resp)
	require.Equal(t, flow.ADVANCE_SUBMISSION_FAILED, outcome.Status)
	require.Equal(t, "Network timeout", outcome.ErrorMessage)

	resp, err := http.Get(sessionBase)
	require.NoError(t, err)
	fetched := decodeBody[model.SessionExecution](t, resp)
	require.Equal(t, "review", fetched.CurrentStep)
	require.Equal(t, model.SUBMISSION_FAILED, fetched.Submission)
	require.Equal(t, "hate_speech", fetched.Payload["category"])
}

func TestJumpPreconditionConflict(t *testing.T) {
	ts := newTestServer(t, okGateway())
	wizard := `{
		"name": "probe-setup",
		"rootStep": "start",
		"steps": [
			{"id": "start", "next": {"default": "probe-settings"}},
			{"id": "probe-settings", "previous": "start", "preconditions": ["provider_id"]}
		]
	}`
	resp := postJSON(t, ts.URL+"/metadata/wizard", wizard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/session", `{"wizard": "probe-setup"}`)
	execution := decodeBody[model.SessionExecution](t, resp)
	sessionBase := fmt.Sprintf("%s/session/probe-setup/%s", ts.URL, execution.Id)

	resp = postJSON(t, sessionBase+"/jump", `{"step": "probe-settings"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, sessionBase+"/field", `{"name": "provider_id", "value": "prov-1"}`)
	resp.Body.Close()
	resp = postJSON(t, sessionBase+"/jump", `{"step": "probe-settings"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	require.Equal(t, "probe-settings", body["step"])
}

func TestBackEndpoint(t *testing.T) {
	ts := newTestServer(t, okGateway())
	resp := postJSON(t, ts.URL+"/metadata/wizard", wizardJson)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/session", `{"wizard": "guardrail-create", "input": {"category": "hate_speech", "severity": 5}}`)
	execution := decodeBody[model.SessionExecution](t, resp)
	sessionBase := fmt.Sprintf("%s/session/guardrail-create/%s", ts.URL, execution.Id)

	resp = postJSON(t, sessionBase+"/advance", "{}")
	resp.Body.Close()
	resp = postJSON(t, sessionBase+"/back", "{}")
	body := decodeBody[map[string]any](t, resp)
	require.Equal(t, "classification", body["step"])

	// payload survives back-navigation
	resp, err := http.Get(sessionBase)
	require.NoError(t, err)
	fetched := decodeBody[model.SessionExecution](t, resp)
	require.Equal(t, "hate_speech", fetched.Payload["category"])
}
