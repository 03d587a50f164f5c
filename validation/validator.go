package validation

import (
	"github.com/budstack/stepflow/model"
)

// Validate checks a step's payload and returns the field errors found. An
// empty map is the only signal that the step may advance. The pass is pure:
// repeated calls with an unchanged payload return the same errors.
func Validate(step *model.StepDef, payload map[string]any) map[string]model.ErrorKind {
	fieldErrors := make(map[string]model.ErrorKind)
	for _, field := range step.RequiredFields {
		if isEmpty(payload[field]) {
			fieldErrors[field] = model.ERROR_REQUIRED
		}
	}
	for _, fieldDef := range step.Fields {
		if _, failed := fieldErrors[fieldDef.Name]; failed {
			continue
		}
		value, present := payload[fieldDef.Name]
		if !present {
			continue
		}
		fieldValidator, err := NewFieldValidator(fieldDef)
		if err != nil {
			fieldErrors[fieldDef.Name] = model.ERROR_REJECTED
			continue
		}
		if kind, failed := fieldValidator.Validate(value, payload); failed {
			fieldErrors[fieldDef.Name] = kind
		}
	}
	for _, rule := range step.RangeRules {
		minValue, minOk := toNumber(payload[rule.MinField])
		maxValue, maxOk := toNumber(payload[rule.MaxField])
		if !minOk || !maxOk {
			continue
		}
		if minValue > maxValue {
			fieldErrors[rule.MinField] = model.ERROR_RANGE_INVERTED
			fieldErrors[rule.MaxField] = model.ERROR_RANGE_INVERTED
		}
	}
	return fieldErrors
}

// ValidateFieldDefs checks every declared field can be turned into a
// validator. Used at definition registration time.
func ValidateFieldDefs(step *model.StepDef) error {
	for _, fieldDef := range step.Fields {
		if _, err := NewFieldValidator(fieldDef); err != nil {
			return err
		}
	}
	return nil
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
