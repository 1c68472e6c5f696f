package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Entity is implemented by every row type a Table stores. Field and SetField
// address the mutable columns by their snake_case name, so a single Patch
// path serves SQL backends, the HTTP service, and in-memory snapshots.
type Entity interface {
	EntityID() string
	Field(name string) (any, error)
	SetField(name string, value any) error
}

// asString coerces a patch value to string. Only string values are accepted.
func asString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", ErrTypeMismatch
	}
	return s, nil
}

// asBool coerces a patch value to bool. Values decoded from JSON or query
// strings arrive as bool or as "true"/"false".
func asBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, ErrTypeMismatch
		}
		return b, nil
	default:
		return false, ErrTypeMismatch
	}
}

// asInt coerces a patch value to int. JSON numbers decode as float64 and
// are accepted only when integral.
func asInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, ErrTypeMismatch
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, ErrTypeMismatch
		}
		return int(n), nil
	default:
		return 0, ErrTypeMismatch
	}
}
