package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var tokenRe = regexp.MustCompile("{(.*?)}")

// ResolveParams resolves a declarative parameter map against the session
// payload. String values may embed {$.path} tokens which are looked up via
// jsonpath; maps and lists are resolved recursively; everything else passes
// through untouched. Used for step prefill defaults.
func ResolveParams(payload map[string]any, params map[string]any) map[string]any {
	data := make(map[string]any)
	resolveParams(map[string]any{"payload": payload}, params, data)
	return data
}

func resolveParams(lookupData map[string]any, params map[string]any, output map[string]any) {
	for k, v := range params {
		switch value := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			output[k] = out
			resolveParams(lookupData, value, out)
		case string:
			output[k] = resolveString(lookupData, value)
		case []any:
			output[k] = resolveList(lookupData, value)
		default:
			output[k] = v
		}
	}
}

func resolveList(lookupData map[string]any, list []any) []any {
	var output []any
	for _, v := range list {
		switch value := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			output = append(output, out)
			resolveParams(lookupData, value, out)
		case string:
			output = append(output, resolveString(lookupData, value))
		case []any:
			output = append(output, resolveList(lookupData, value)...)
		default:
			output = append(output, v)
		}
	}
	return output
}

func resolveString(lookupData map[string]any, str string) string {
	tokens := tokenRe.FindAllString(str, -1)
	newStr := str
	for _, token := range tokens {
		tmatch := strings.ReplaceAll(token, "{", "")
		tmatch = strings.ReplaceAll(tmatch, "}", "")
		if strings.HasPrefix(tmatch, "$") {
			value, _ := jsonpath.JsonPathLookup(lookupData, tmatch)
			newStr = strings.ReplaceAll(newStr, token, fmt.Sprintf("%v", value))
		}
	}
	return newStr
}
