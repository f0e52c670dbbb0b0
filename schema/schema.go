// Package schema validates entities against per-collection JSON Schemas and
// describes the layout of the persisted document.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
)

// ValidationError reports the first constraint an entity violates.
type ValidationError struct {
	// Path locates the offending value, "$" being the entity itself.
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Path + ": " + e.Reason
}

func failf(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks an entity against a JSON Schema (draft-07 subset).
// Returns nil if validation passes or the schema is nil. Failures are
// *ValidationError.
//
// Supported JSON Schema keywords:
//   - type (string, number, integer, boolean, object, array, null)
//   - properties, required, additionalProperties
//   - items (for arrays)
//   - minimum, maximum, exclusiveMinimum, exclusiveMaximum
//   - minLength, maxLength
//   - minItems, maxItems
//   - enum
func Validate(schema map[string]any, entity map[string]any) error {
	if schema == nil {
		return nil
	}
	return validateValue(schema, entity, "$")
}

func validateValue(schema map[string]any, value any, path string) error {
	if t, ok := schema["type"].(string); ok {
		if err := checkType(t, value, path); err != nil {
			return err
		}
	}
	if enum, ok := schema["enum"].([]any); ok {
		if err := checkEnum(enum, value, path); err != nil {
			return err
		}
	}

	switch v := value.(type) {
	case map[string]any:
		return validateObject(schema, v, path)
	case []any:
		return validateArray(schema, v, path)
	case string:
		return validateString(schema, v, path)
	}
	if n, ok := toFloat(value); ok {
		return validateNumber(schema, n, path)
	}
	return nil
}

func checkType(expected string, value any, path string) error {
	actual := jsonType(value)
	switch {
	case actual == expected:
		return nil
	case expected == "number" && actual == "integer":
		return nil
	case expected == "integer" && actual == "number":
		// Accept whole numbers whatever their representation.
		if f, ok := toFloat(value); ok && f == math.Trunc(f) {
			return nil
		}
	}
	return failf(path, "expected type %q, got %q", expected, actual)
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case int, int64:
		return "integer"
	default:
		return reflect.TypeOf(v).String()
	}
}

func checkEnum(allowed []any, value any, path string) error {
	if n, ok := toFloat(value); ok {
		for _, a := range allowed {
			if m, ok := toFloat(a); ok && m == n {
				return nil
			}
		}
	}
	for _, a := range allowed {
		if reflect.DeepEqual(a, value) {
			return nil
		}
	}
	return failf(path, "value not in enum %v", allowed)
}

func validateObject(schema map[string]any, obj map[string]any, path string) error {
	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if field, ok := r.(string); ok {
				if _, exists := obj[field]; !exists {
					return failf(path, "missing required field %q", field)
				}
			}
		}
	}

	props, _ := schema["properties"].(map[string]any)
	// Sorted so the reported violation is deterministic.
	fields := make([]string, 0, len(props))
	for field := range props {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	for _, field := range fields {
		val, exists := obj[field]
		if !exists {
			continue
		}
		ps, ok := props[field].(map[string]any)
		if !ok {
			continue
		}
		if err := validateValue(ps, val, path+"."+field); err != nil {
			return err
		}
	}

	if ap, ok := schema["additionalProperties"].(bool); ok && !ap {
		var extra []string
		for field := range obj {
			if _, defined := props[field]; !defined {
				extra = append(extra, field)
			}
		}
		if len(extra) > 0 {
			slices.Sort(extra)
			return failf(path, "additional properties not allowed: %s", strings.Join(extra, ", "))
		}
	}
	return nil
}

func validateArray(schema map[string]any, arr []any, path string) error {
	if v, ok := toFloat(schema["minItems"]); ok && float64(len(arr)) < v {
		return failf(path, "array length %d is less than minItems %v", len(arr), v)
	}
	if v, ok := toFloat(schema["maxItems"]); ok && float64(len(arr)) > v {
		return failf(path, "array length %d is greater than maxItems %v", len(arr), v)
	}
	if itemSchema, ok := schema["items"].(map[string]any); ok {
		for i, elem := range arr {
			if err := validateValue(itemSchema, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateString(schema map[string]any, s string, path string) error {
	n := float64(len([]rune(s)))
	if v, ok := toFloat(schema["minLength"]); ok && n < v {
		return failf(path, "string length %v is less than minLength %v", n, v)
	}
	if v, ok := toFloat(schema["maxLength"]); ok && n > v {
		return failf(path, "string length %v is greater than maxLength %v", n, v)
	}
	return nil
}

func validateNumber(schema map[string]any, n float64, path string) error {
	if v, ok := toFloat(schema["minimum"]); ok && n < v {
		return failf(path, "%v is less than minimum %v", n, v)
	}
	if v, ok := toFloat(schema["maximum"]); ok && n > v {
		return failf(path, "%v is greater than maximum %v", n, v)
	}
	if v, ok := toFloat(schema["exclusiveMinimum"]); ok && n <= v {
		return failf(path, "%v is not greater than exclusiveMinimum %v", n, v)
	}
	if v, ok := toFloat(schema["exclusiveMaximum"]); ok && n >= v {
		return failf(path, "%v is not less than exclusiveMaximum %v", n, v)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
