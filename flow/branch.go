package flow

import (
	"strconv"

	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/util"
)

// resolveNext picks the step an advance lands on. A switch expression is
// looked up in the payload and its value selects a case; anything that does
// not match a case falls back to Default. An empty result means terminal.
func resolveNext(step *model.StepDef, payload map[string]any) string {
	next := step.Next
	if len(next.Switch) == 0 {
		return next.Default
	}
	value, err := util.JsonPathValue(payload, next.Switch)
	if err != nil {
		return next.Default
	}
	caseKey := ""
	switch typed := value.(type) {
	case int:
		caseKey = strconv.Itoa(typed)
	case int64:
		caseKey = strconv.FormatInt(typed, 10)
	case float32:
		caseKey = strconv.Itoa(int(typed))
	case float64:
		caseKey = strconv.Itoa(int(typed))
	case bool:
		caseKey = strconv.FormatBool(typed)
	case string:
		caseKey = typed
	}
	if target, ok := next.Cases[caseKey]; ok {
		return target
	}
	return next.Default
}
