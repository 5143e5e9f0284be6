package application

import (
	"fmt"
	"math"

	"github.com/spf13/cast"

	"responsive-mcp-server/internal/domain"
)

// Parameter extraction helpers for tool-call arguments. Each returns
// the typed value, whether the parameter was present, and a validation
// error when a present value has the wrong shape. Absent parameters are
// never an error here; required-ness is the builder's decision.

// invalidParam constructs the uniform validation error for a parameter.
func invalidParam(name, expected string) *domain.Error {
	return &domain.Error{
		Code:    domain.InvalidParams,
		Message: fmt.Sprintf("parameter %s must be %s", name, expected),
	}
}

// stringParam extracts a string parameter from the arguments map.
func stringParam(args map[string]interface{}, name string) (string, bool, error) {
	value, exists := args[name]
	if !exists {
		return "", false, nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", true, invalidParam(name, "a string")
	}

	return strValue, true, nil
}

// intParam extracts an integer parameter. JSON numbers arrive as
// float64, so integral floats are coerced; fractional values, strings,
// and other types are rejected rather than truncated.
func intParam(args map[string]interface{}, name string) (int, bool, error) {
	value, exists := args[name]
	if !exists {
		return 0, false, nil
	}

	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, invalidParam(name, "an integer")
		}
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, true, invalidParam(name, "an integer")
		}
	case int, int32, int64:
	default:
		return 0, true, invalidParam(name, "an integer")
	}

	intValue, err := cast.ToIntE(value)
	if err != nil {
		return 0, true, invalidParam(name, "an integer")
	}
	return intValue, true, nil
}

// boolParam extracts a boolean parameter.
func boolParam(args map[string]interface{}, name string) (bool, bool, error) {
	value, exists := args[name]
	if !exists {
		return false, false, nil
	}

	boolValue, err := cast.ToBoolE(value)
	if err != nil {
		return false, true, invalidParam(name, "a boolean")
	}

	return boolValue, true, nil
}

// stringSliceParam extracts a list-of-strings parameter. The value must
// be a sequence and every element must be a string; numeric or mixed
// sequences are rejected rather than coerced, so malformed filters fail
// loudly instead of silently searching for the wrong thing.
func stringSliceParam(args map[string]interface{}, name string) ([]string, bool, error) {
	value, exists := args[name]
	if !exists {
		return nil, false, nil
	}

	switch v := value.(type) {
	case []string:
		return v, true, nil
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, true, invalidParam(name, "a list of strings")
			}
			result = append(result, str)
		}
		return result, true, nil
	default:
		return nil, true, invalidParam(name, "a list of strings")
	}
}

// mapParam extracts a JSON-object parameter.
func mapParam(args map[string]interface{}, name string) (map[string]interface{}, bool, error) {
	value, exists := args[name]
	if !exists {
		return nil, false, nil
	}

	mapValue, ok := value.(map[string]interface{})
	if !ok {
		return nil, true, invalidParam(name, "an object")
	}

	return mapValue, true, nil
}
