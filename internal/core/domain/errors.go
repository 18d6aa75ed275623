package domain

import "errors"

// ErrInvalidCredentials is the single error surfaced for any login failure.
// Lookup misses and password mismatches are deliberately indistinguishable
// to avoid username enumeration.
var ErrInvalidCredentials = errors.New("invalid username or password")

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrRoleNotFound     = errors.New("role not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrNameTaken        = errors.New("a user with that name already exists")
	ErrEmailTaken       = errors.New("a user with that email address already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrEmptyNote        = errors.New("note body must not be empty")
	ErrMissingField     = errors.New("name and email are required")
)
