package library

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store, the circulation engine, and the front
// ends. Front ends match on these with errors.Is and turn them into
// user-facing messages; nothing retries.
var (
	ErrNotFound           = errors.New("book not found")
	ErrUnavailable        = errors.New("no copies available")
	ErrNotBorrowedByUser  = errors.New("book not borrowed by this user")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports the first violated constraint of a form input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
