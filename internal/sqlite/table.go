package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// timeLayout is a fixed-width RFC 3339 layout so that lexical ordering of the
// stored text matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// newUUID generates a UUID v7 string.
func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// filterString extracts a string filter value. ok is false when the key is
// absent; ErrInvalidFilter is returned when the value has the wrong type.
func filterString(filter types.Filter, key string) (string, bool, error) {
	v, ok := filter[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, types.ErrInvalidFilter
	}
	return s, true, nil
}

// filterBool extracts a boolean filter value.
func filterBool(filter types.Filter, key string) (bool, bool, error) {
	v, ok := filter[key]
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, types.ErrInvalidFilter
	}
	return b, true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
