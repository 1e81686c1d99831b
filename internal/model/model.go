// Package model defines the core domain types for the activity sign-up board.
package model

// Activity is an extracurricular offering. Participants are student emails
// in sign-up order.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// HasParticipant reports whether email is on the roster.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Session is an authenticated staff login.
type Session struct {
	// ID identifies the session in logs; the token itself is never logged.
	ID       string
	Username string
}

// LoginRequest is the payload for POST /admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// VerifyResponse is returned by GET /admin/verify.
type VerifyResponse struct {
	Username string `json:"username"`
}

// EmailRequest is the optional JSON body for signup/unregister when the
// email is not given in the query string.
type EmailRequest struct {
	Email string `json:"email"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
