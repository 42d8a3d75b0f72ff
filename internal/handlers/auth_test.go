package handlers

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
)

func userRecord(role string) *core.Record {
	collection := core.NewAuthCollection("users")
	collection.Fields.Add(&core.SelectField{
		Name:      "role",
		Values:    []string{"staff", "attendee"},
		MaxSelect: 1,
	})

	record := core.NewRecord(collection)
	record.Id = "test-user"
	if role != "" {
		record.Set("role", role)
	}
	return record
}

func TestStaffGate_NoSession(t *testing.T) {
	code, msg := staffGate(nil)

	assert.Equal(t, 401, code)
	assert.Equal(t, "Unauthorized", msg)
}

func TestStaffGate_WrongRole(t *testing.T) {
	tests := []struct {
		name string
		role string
	}{
		{"Attendee role", "attendee"},
		{"Missing role", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := staffGate(userRecord(tt.role))

			assert.Equal(t, 403, code)
			assert.Equal(t, "Access denied", msg)
		})
	}
}

func TestStaffGate_StaffRole(t *testing.T) {
	code, msg := staffGate(userRecord("staff"))

	assert.Zero(t, code)
	assert.Empty(t, msg)
}
