package account

import "errors"

var (
	// ErrUsernameTaken signals a signup against an already-registered
	// username (exact, case-sensitive match).
	ErrUsernameTaken = errors.New("username already exists")

	// ErrNotFound signals a login against an unknown username.
	ErrNotFound = errors.New("username not found")

	// ErrInvalidCredentials signals a password mismatch on login.
	ErrInvalidCredentials = errors.New("incorrect password")
)

// ValidationError reports a malformed signup/login input. The message is
// safe to show to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
