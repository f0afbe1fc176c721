package model

// Response envelopes, one per endpoint shape. Some list endpoints return a
// bare array and others wrap it in a named field; callers never guess.

// UserList is the bare array returned by GET /admin/users.
type UserList []User

// ProblemList is the bare array returned by GET /admin/problems.
type ProblemList []Problem

// TeamsEnvelope wraps GET /admin/teams.
type TeamsEnvelope struct {
	Teams []Team `json:"teams"`
}

// SubmissionsEnvelope wraps GET /admin/submissions.
type SubmissionsEnvelope struct {
	Submissions []Submission `json:"submissions"`
}

// EventsEnvelope wraps GET /users/events.
type EventsEnvelope struct {
	Events []Event `json:"events"`
}

// EventEnvelope wraps create/start/stop event responses.
type EventEnvelope struct {
	Event *Event `json:"event"`
}

// LoginResponse is returned by POST /admin/login.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// ErrorBody is the error payload the backend sends with non-2xx responses.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Text returns the most specific message available.
func (b ErrorBody) Text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
