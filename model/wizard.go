package model

// FieldType discriminates field validators. Steps declare the type of every
// field explicitly; nothing is ever inferred from field or step names.
type FieldType string

const (
	FIELD_TYPE_STRING  FieldType = "string"
	FIELD_TYPE_NUMBER  FieldType = "number"
	FIELD_TYPE_BOOLEAN FieldType = "boolean"
	FIELD_TYPE_ENUM    FieldType = "enum"
	FIELD_TYPE_UUID    FieldType = "uuid"
	FIELD_TYPE_OBJECT  FieldType = "object"
	FIELD_TYPE_SCRIPT  FieldType = "script"
)

type Wizard struct {
	Name     string    `json:"name" yaml:"name"`
	RootStep string    `json:"rootStep" yaml:"rootStep"`
	Steps    []StepDef `json:"steps" yaml:"steps"`
}

type StepDef struct {
	Id             string         `json:"id" yaml:"id"`
	RequiredFields []string       `json:"requiredFields" yaml:"requiredFields"`
	Fields         []FieldDef     `json:"fields" yaml:"fields"`
	RangeRules     []RangeRule    `json:"rangeRules" yaml:"rangeRules"`
	Submit         bool           `json:"submit" yaml:"submit"`
	Prefill        map[string]any `json:"prefill" yaml:"prefill"`
	Next           NextDef        `json:"next" yaml:"next"`
	Previous       string         `json:"previous" yaml:"previous"`
	Preconditions  []string       `json:"preconditions" yaml:"preconditions"`
}

type FieldDef struct {
	Name       string    `json:"name" yaml:"name"`
	Type       FieldType `json:"type" yaml:"type"`
	Min        *float64  `json:"min" yaml:"min"`
	Max        *float64  `json:"max" yaml:"max"`
	Values     []string  `json:"values" yaml:"values"`
	Expression string    `json:"expression" yaml:"expression"`
}

// RangeRule ties a min field to a max field across the step's payload.
type RangeRule struct {
	MinField string `json:"minField" yaml:"minField"`
	MaxField string `json:"maxField" yaml:"maxField"`
}

// NextDef resolves the step to advance to. When Switch is set it holds a
// jsonpath expression enclosed in {}; the looked-up value selects a case,
// falling back to Default. An empty resolved target means the wizard is
// complete.
type NextDef struct {
	Switch  string            `json:"switch" yaml:"switch"`
	Cases   map[string]string `json:"cases" yaml:"cases"`
	Default string            `json:"default" yaml:"default"`
}

func (n NextDef) Terminal() bool {
	return len(n.Switch) == 0 && len(n.Cases) == 0 && len(n.Default) == 0
}

type WizardSaveRequest struct {
	Wizard
}

type SessionCreateRequest struct {
	Wizard string         `json:"wizard"`
	Input  map[string]any `json:"input"`
}

type FieldUpdateRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type JumpRequest struct {
	Step string `json:"step"`
}
