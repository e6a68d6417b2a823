package auth

import "leavedesk/internal/domain/workday"

// UserContext is the authenticated caller as seen by handlers. Schedule is
// loaded from the user directory on every request, so it reflects the
// latest admin edits rather than what was true when the token was issued.
type UserContext struct {
	UserID   string
	RoleName string
	Email    string
	Name     string
	Schedule workday.WeeklySchedule
}

func (u UserContext) IsAdmin() bool {
	return u.RoleName == RoleAdmin
}
