package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// fieldErrorResponse carries field-level validation messages so the caller
// can redisplay the form with per-field feedback.
type fieldErrorResponse struct {
	Errors FieldErrors `json:"errors"`
}

// --- Request types (accept both form posts and JSON) ---

type loginRequest struct {
	Username   string `form:"username"    json:"username" validate:"required"`
	Passwd     string `form:"passwd"      json:"passwd"   validate:"required"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

type registerRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Email    string `form:"email"    json:"email"    validate:"required,email"`
	Passwd   string `form:"passwd"   json:"passwd"   validate:"required,min=6"`
	Passwd2  string `form:"passwd2"  json:"passwd2"  validate:"required,eqfield=Passwd"`
}

// noteRequest is not validator-checked: empty and whitespace-only bodies are
// both rejected by the note service's trim check, which the handler maps to a
// field error.
type noteRequest struct {
	Note string `form:"note" json:"note"`
}

// --- Response types owned by the transport layer ---

type noteResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

type noteListResponse struct {
	Username string         `json:"username"`
	Notes    []noteResponse `json:"notes"`
}
