package validation

import (
	"testing"

	"github.com/budstack/stepflow/model"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func classificationStep() *model.StepDef {
	return &model.StepDef{
		Id:             "classification",
		RequiredFields: []string{"category", "severity"},
		Fields: []model.FieldDef{
			{Name: "category", Type: model.FIELD_TYPE_ENUM, Values: []string{"hate_speech", "self_harm", "jailbreak"}},
			{Name: "severity", Type: model.FIELD_TYPE_NUMBER, Min: floatPtr(0), Max: floatPtr(10)},
		},
	}
}

func TestValidateRequiredFields(t *testing.T) {
	payload := map[string]any{"category": "hate_speech"}
	fieldErrors := Validate(classificationStep(), payload)
	require.Len(t, fieldErrors, 1)
	require.Equal(t, model.ERROR_REQUIRED, fieldErrors["severity"])
}

func TestValidateEmptyValueIsMissing(t *testing.T) {
	payload := map[string]any{"category": "", "severity": 5}
	fieldErrors := Validate(classificationStep(), payload)
	require.Equal(t, model.ERROR_REQUIRED, fieldErrors["category"])
}

func TestValidateIdempotent(t *testing.T) {
	payload := map[string]any{"category": "hate_speech"}
	step := classificationStep()
	first := Validate(step, payload)
	second := Validate(step, payload)
	require.Equal(t, first, second)
}

func TestValidateCleanPayload(t *testing.T) {
	payload := map[string]any{"category": "hate_speech", "severity": 5}
	fieldErrors := Validate(classificationStep(), payload)
	require.Empty(t, fieldErrors)
}

func TestValidateEnum(t *testing.T) {
	payload := map[string]any{"category": "spam", "severity": 5}
	fieldErrors := Validate(classificationStep(), payload)
	require.Equal(t, model.ERROR_NOT_IN_ENUM, fieldErrors["category"])
}

func TestValidateNumberBounds(t *testing.T) {
	payload := map[string]any{"category": "hate_speech", "severity": 42}
	fieldErrors := Validate(classificationStep(), payload)
	require.Equal(t, model.ERROR_OUT_OF_BOUNDS, fieldErrors["severity"])
}

func TestValidateTypeMismatch(t *testing.T) {
	payload := map[string]any{"category": "hate_speech", "severity": "high"}
	fieldErrors := Validate(classificationStep(), payload)
	require.Equal(t, model.ERROR_TYPE_MISMATCH, fieldErrors["severity"])
}

func TestValidateRangeRule(t *testing.T) {
	step := &model.StepDef{
		Id: "thresholds",
		Fields: []model.FieldDef{
			{Name: "ttft_min", Type: model.FIELD_TYPE_NUMBER},
			{Name: "ttft_max", Type: model.FIELD_TYPE_NUMBER},
		},
		RangeRules: []model.RangeRule{{MinField: "ttft_min", MaxField: "ttft_max"}},
	}
	fieldErrors := Validate(step, map[string]any{"ttft_min": 200, "ttft_max": 100})
	require.Equal(t, model.ERROR_RANGE_INVERTED, fieldErrors["ttft_min"])
	require.Equal(t, model.ERROR_RANGE_INVERTED, fieldErrors["ttft_max"])

	fieldErrors = Validate(step, map[string]any{"ttft_min": 100, "ttft_max": 100})
	require.Empty(t, fieldErrors)

	fieldErrors = Validate(step, map[string]any{"ttft_min": 100, "ttft_max": 200})
	require.Empty(t, fieldErrors)
}

func TestValidateUuidField(t *testing.T) {
	step := &model.StepDef{
		Id:     "provider",
		Fields: []model.FieldDef{{Name: "provider_id", Type: model.FIELD_TYPE_UUID}},
	}
	fieldErrors := Validate(step, map[string]any{"provider_id": "not-a-uuid"})
	require.Equal(t, model.ERROR_INVALID_UUID, fieldErrors["provider_id"])

	fieldErrors = Validate(step, map[string]any{"provider_id": "8b8f2dc2-4a51-4b8e-9f10-6f1f7f8f2a11"})
	require.Empty(t, fieldErrors)
}

func TestValidateBooleanField(t *testing.T) {
	step := &model.StepDef{
		Id:     "output-mode",
		Fields: []model.FieldDef{{Name: "structured_output_enabled", Type: model.FIELD_TYPE_BOOLEAN}},
	}
	fieldErrors := Validate(step, map[string]any{"structured_output_enabled": "yes"})
	require.Equal(t, model.ERROR_TYPE_MISMATCH, fieldErrors["structured_output_enabled"])
}

func TestValidateScriptField(t *testing.T) {
	step := &model.StepDef{
		Id: "concurrency",
		Fields: []model.FieldDef{
			{Name: "max_concurrency", Type: model.FIELD_TYPE_SCRIPT, Expression: "value >= $.min_concurrency"},
		},
	}
	payload := map[string]any{"min_concurrency": 4, "max_concurrency": 2}
	fieldErrors := Validate(step, payload)
	require.Equal(t, model.ERROR_REJECTED, fieldErrors["max_concurrency"])

	payload["max_concurrency"] = 8
	require.Empty(t, Validate(step, payload))
}

func TestValidateAbsentOptionalFieldSkipped(t *testing.T) {
	step := &model.StepDef{
		Id:     "thresholds",
		Fields: []model.FieldDef{{Name: "ttft_min", Type: model.FIELD_TYPE_NUMBER}},
	}
	require.Empty(t, Validate(step, map[string]any{}))
}

func TestValidateFieldDefs(t *testing.T) {
	step := &model.StepDef{
		Id:     "bad",
		Fields: []model.FieldDef{{Name: "mode", Type: model.FIELD_TYPE_ENUM}},
	}
	require.Error(t, ValidateFieldDefs(step))

	step.Fields[0].Values = []string{"simple", "structured"}
	require.NoError(t, ValidateFieldDefs(step))
}
