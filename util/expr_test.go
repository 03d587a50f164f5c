package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJsonPathValue(t *testing.T) {
	payload := map[string]any{"mode": "structured", "limits": map[string]any{"max": 10}}

	value, err := JsonPathValue(payload, "{$.payload.mode}")
	require.NoError(t, err)
	require.Equal(t, "structured", value)

	value, err = JsonPathValue(payload, "{$.payload.limits.max}")
	require.NoError(t, err)
	require.Equal(t, 10, value)

	_, err = JsonPathValue(payload, "{$.payload.missing}")
	require.Error(t, err)
}

func TestValidateJsonPathExpr(t *testing.T) {
	require.NoError(t, ValidateJsonPathExpr("{$.payload.mode}"))
	require.Error(t, ValidateJsonPathExpr("$.payload.mode"))
	require.Error(t, ValidateJsonPathExpr("{not a path}"))
}

func TestResolveParams(t *testing.T) {
	payload := map[string]any{"category": "hate_speech", "severity": 5}
	params := map[string]any{
		"display_name": "guardrail for {$.payload.category}",
		"static":       42,
		"nested": map[string]any{
			"label": "severity {$.payload.severity}",
		},
		"tags": []any{"{$.payload.category}", "fixed"},
	}
	resolved := ResolveParams(payload, params)
	require.Equal(t, "guardrail for hate_speech", resolved["display_name"])
	require.Equal(t, 42, resolved["static"])
	require.Equal(t, "severity 5", resolved["nested"].(map[string]any)["label"])
	require.Equal(t, []any{"hate_speech", "fixed"}, resolved["tags"])
}
