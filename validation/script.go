package validation

import (
	"encoding/json"
	"fmt"

	"github.com/budstack/stepflow/model"
	"github.com/dop251/goja"
)

// scriptValidator runs a javascript expression with $ bound to the payload
// and value bound to the field under check. A falsy result rejects the value.
type scriptValidator struct {
	field      string
	expression string
}

func (v *scriptValidator) GetField() string {
	return v.field
}

func (v *scriptValidator) Validate(value any, payload map[string]any) (model.ErrorKind, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		return model.ERROR_REJECTED, true
	}
	valueData, err := json.Marshal(value)
	if err != nil {
		return model.ERROR_REJECTED, true
	}
	script := fmt.Sprintf("var $ = %s;\nvar value = %s;\n", data, valueData)
	script = script + v.expression
	vm := goja.New()
	result, err := vm.RunString(script)
	if err != nil {
		return model.ERROR_REJECTED, true
	}
	if !result.ToBoolean() {
		return model.ERROR_REJECTED, true
	}
	return "", false
}
