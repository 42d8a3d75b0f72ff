package services

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsoDate(t *testing.T) {
	native := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	pbDate, err := types.ParseDateTime(native)
	require.NoError(t, err)

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"Native time", native, "2025-03-01T10:30:00Z"},
		{"Store datetime", pbDate, "2025-03-01T10:30:00Z"},
		{"RFC3339 string", "2025-03-01T10:30:00Z", "2025-03-01T10:30:00Z"},
		{"RFC3339 with offset", "2025-03-01T12:30:00+02:00", "2025-03-01T10:30:00Z"},
		{"Store layout string", "2025-03-01 10:30:00.000Z", "2025-03-01T10:30:00Z"},
		{"Date only string", "2025-03-01", "2025-03-01T00:00:00Z"},
		{"Garbage string", "not-a-date", InvalidDateLabel},
		{"Empty string", "", InvalidDateLabel},
		{"Nil value", nil, InvalidDateLabel},
		{"Zero time", time.Time{}, InvalidDateLabel},
		{"Zero store datetime", types.DateTime{}, InvalidDateLabel},
		{"Unsupported type", 12345, InvalidDateLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isoDate(tt.value))
		})
	}
}
