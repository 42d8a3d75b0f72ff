package utils

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Random code tests

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(6)

	require.NoError(t, err)
	assert.Len(t, code, 12)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]+$`), code)
}

func TestGenerateCode_Unique(t *testing.T) {
	first, err := GenerateCode(6)
	require.NoError(t, err)

	second, err := GenerateCode(6)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

// Circuit Breaker Tests

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("test")

	assert.Equal(t, "test", cb.name)
	assert.Equal(t, uint32(100), cb.maxRequests)
	assert.Equal(t, 60*time.Second, cb.interval)
	assert.Equal(t, 60*time.Second, cb.timeout)
	assert.Equal(t, 0.6, cb.failureRatio)
	assert.Equal(t, StateClosed, cb.state)
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	expectedResult := "success"
	result, err := cb.Execute(ctx, func() (any, error) {
		return expectedResult, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, expectedResult, result)
	assert.Equal(t, StateClosed, cb.state)
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
	assert.Equal(t, uint32(0), cb.counts.TotalFailures)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	expectedError := errors.New("test error")
	result, err := cb.Execute(ctx, func() (any, error) {
		return nil, expectedError
	})

	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
	assert.Nil(t, result)
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(0), cb.counts.TotalSuccesses)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
}

// iCalendar tests

func TestBuildEventICS(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC)

	ics := BuildEventICS("evt-1", "Tech Expo", "Doors open; bring ID", "Main Hall, Building 2", start, end)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, ics, "UID:evt-1")
	assert.Contains(t, ics, "DTSTART:20250601T090000Z")
	assert.Contains(t, ics, "DTEND:20250601T170000Z")
	assert.Contains(t, ics, "SUMMARY:Tech Expo")
	assert.Contains(t, ics, "DESCRIPTION:Doors open\\; bring ID")
	assert.Contains(t, ics, "LOCATION:Main Hall\\, Building 2")
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
}

func TestBuildEventICS_MissingEndDefaultsToTwoHours(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	ics := BuildEventICS("evt-1", "Tech Expo", "", "", start, time.Time{})

	assert.Contains(t, ics, "DTSTART:20250601T090000Z")
	assert.Contains(t, ics, "DTEND:20250601T110000Z")
	assert.NotContains(t, ics, "DESCRIPTION:")
	assert.NotContains(t, ics, "LOCATION:")
}

func TestICSFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple name", "Tech Expo", "Tech-Expo.ics"},
		{"Special characters stripped", "Expo: 2025 / Summer!", "Expo-2025--Summer.ics"},
		{"Empty name", "", "event.ics"},
		{"Only special characters", "!!!", "event.ics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ICSFilename(tt.input))
		})
	}
}
