package util

import (
	"fmt"
	"strings"

	"github.com/oliveagle/jsonpath"
)

// JsonPathValue evaluates a jsonpath expression enclosed in {} against the
// session payload, e.g. {$.structured_output_enabled}.
func JsonPathValue(data map[string]any, expression string) (any, error) {
	tmatch := strings.ReplaceAll(expression, "{", "")
	tmatch = strings.ReplaceAll(tmatch, "}", "")
	return jsonpath.JsonPathLookup(map[string]any{"payload": data}, tmatch)
}

func ValidateJsonPathExpr(expression string) error {
	if !strings.HasPrefix(expression, "{") || !strings.HasSuffix(expression, "}") {
		return fmt.Errorf("expression should be enclosed in {}")
	}
	tmatch := strings.ReplaceAll(expression, "{", "")
	tmatch = strings.ReplaceAll(tmatch, "}", "")
	if _, err := jsonpath.Compile(tmatch); err != nil {
		return fmt.Errorf("expression should be a valid jsonpath expression")
	}
	return nil
}
