package services

import (
	"time"

	"github.com/pocketbase/pocketbase/tools/types"
)

// InvalidDateLabel marks a stored date value that could not be interpreted.
// Unparseable dates are surfaced instead of being replaced with "now", so
// repeated aggregations over unchanged data stay byte-identical.
const InvalidDateLabel = "Invalid Date"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// isoDate normalizes a stored date value (native timestamp or string) to an
// ISO-8601 UTC string.
func isoDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return InvalidDateLabel
		}
		return v.UTC().Format(time.RFC3339)
	case types.DateTime:
		if v.IsZero() {
			return InvalidDateLabel
		}
		return v.Time().UTC().Format(time.RFC3339)
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC().Format(time.RFC3339)
			}
		}
		return InvalidDateLabel
	default:
		return InvalidDateLabel
	}
}
