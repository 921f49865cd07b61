package utils

import (
	"fmt"
	"strconv"
)

// ParseFloat converts a string to a float64, returning 0 for empty input
func ParseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return value, nil
}

// ParseBusinessVolume extracts a team business figure from a stats document
// field that may be stored as a number or as a numeric string
func ParseBusinessVolume(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return ParseFloat(v)
	default:
		return 0, fmt.Errorf("unsupported team business type %T", raw)
	}
}
