package validation

import (
	"fmt"

	"github.com/budstack/stepflow/model"
	"github.com/google/uuid"
)

// FieldValidator checks a single payload value. Implementations are selected
// by the declared field type, never by matching on field or step names.
type FieldValidator interface {
	GetField() string
	Validate(value any, payload map[string]any) (model.ErrorKind, bool)
}

func NewFieldValidator(def model.FieldDef) (FieldValidator, error) {
	switch def.Type {
	case model.FIELD_TYPE_STRING:
		return &stringValidator{field: def.Name}, nil
	case model.FIELD_TYPE_NUMBER:
		return &numberValidator{field: def.Name, min: def.Min, max: def.Max}, nil
	case model.FIELD_TYPE_BOOLEAN:
		return &booleanValidator{field: def.Name}, nil
	case model.FIELD_TYPE_ENUM:
		if len(def.Values) == 0 {
			return nil, fmt.Errorf("field %s, enum field should declare values", def.Name)
		}
		return &enumValidator{field: def.Name, values: def.Values}, nil
	case model.FIELD_TYPE_UUID:
		return &uuidValidator{field: def.Name}, nil
	case model.FIELD_TYPE_OBJECT:
		return &objectValidator{field: def.Name}, nil
	case model.FIELD_TYPE_SCRIPT:
		if len(def.Expression) == 0 {
			return nil, fmt.Errorf("field %s, script field should declare an expression", def.Name)
		}
		return &scriptValidator{field: def.Name, expression: def.Expression}, nil
	}
	return nil, fmt.Errorf("field %s, invalid field type %s", def.Name, def.Type)
}

type stringValidator struct {
	field string
}

func (v *stringValidator) GetField() string {
	return v.field
}

func (v *stringValidator) Validate(value any, payload map[string]any) (model.ErrorKind, bool) {
	if _, ok := value.(string); !ok {
		return model.ERROR_TYPE_MISMATCH, true
	}
	return "", false
}

type numberValidator struct {
	field string
	min   *float64
	max   *float64
}

func (v *numberValidator) GetField() string {
	return v.field
}

func (v *numberValidator) Validate(value any, payload map[string]any) (model.ErrorKind, bool) {
	num, ok := toNumber(value)
	if !ok {
		return model.ERROR_TYPE_MISMATCH, true
	}
	if v.min != nil && num < *v.min {
		return model.ERROR_OUT_OF_BOUNDS, true
	}
	if v.max != nil && num > *v.max {
		return model.ERROR_OUT_OF_BOUNDS, true
	}
	return "", false
}

type booleanValidator struct {
	field string
}

func (v *booleanValidator) GetField() string {
	return v.field
}

func (v *booleanValidator) Validate(value any, payload map[string]any) (model.ErrorKind, bool) {
	if _, ok := value.(bool); !ok {
		return model.ERROR_TYPE_MISMATCH, true
	}
	return "", false
}

type enumValidator struct {
	field  string
	values []string
}

func (v *enumValidator) GetField() string {
	return v.field
}

func (v *enumValidator) Validate(value any, payload map[string]any) (model.ErrorKind, bool) {
	str, ok := value.(string)
	if !ok {
		return model.ERROR_TYPE_MISMATCH, true
	}
	for _, allowed := range v.values {
		if str == allowed {
			return "", false
		}
	}
	return model.ERROR_NOT_IN_ENUM, true
}

type uuidValidator struct {
	field string
}

func (v *uuidValidator) GetField() string {
	return v.field
}

func (v *uuidValidator) Validate(value any, payload map[string]any) (model.ErrorKind, bool) {
	str, ok := value.(string)
	if !ok {
		return model.ERROR_TYPE_MISMATCH, true
	}
	if _, err := uuid.Parse(str); err != nil {
		return model.ERROR_INVALID_UUID, true
	}
	return "", false
}

type objectValidator struct {
	field string
}

func (v *objectValidator) GetField() string {
	return v.field
}

func (v *objectValidator) Validate(value any, payload map[string]any) (model.ErrorKind, bool) {
	if _, ok := value.(map[string]any); !ok {
		return model.ERROR_TYPE_MISMATCH, true
	}
	return "", false
}

func toNumber(value any) (float64, bool) {
	switch num := value.(type) {
	case int:
		return float64(num), true
	case int32:
		return float64(num), true
	case int64:
		return float64(num), true
	case float32:
		return float64(num), true
	case float64:
		return num, true
	}
	return 0, false
}
