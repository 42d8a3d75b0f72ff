package handlers

import (
	"event-registration/models"

	"github.com/pocketbase/pocketbase/core"
)

// staffGate checks the staff surface preconditions. It returns a zero code
// when the caller may proceed, otherwise the HTTP status and error message
// to respond with. Only exactly the staff role passes.
func staffGate(auth *core.Record) (int, string) {
	if auth == nil {
		return 401, "Unauthorized"
	}
	if auth.GetString("role") != models.RoleStaff {
		return 403, "Access denied"
	}
	return 0, ""
}
