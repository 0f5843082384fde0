package tasks

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeDuplicateEmail     = "duplicate_email"
	TextCodeTokenExpired       = "token_expired"
	TextCodeTokenMalformed     = "token_malformed"
	TextCodeIdentityNotFound   = "identity_not_found"
	TextCodeTaskNotFound       = "task_not_found"
)

// ErrInvalidCredentials is returned whenever a login fails, whether the
// email is unknown or the password is wrong. Keeping a single message
// prevents user enumeration.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateEmail is returned when registering with an email that is
// already taken.
var ErrDuplicateEmail = errors.New("a user with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrTokenExpired is returned when a bearer token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail to parse or whose
// signature does not verify against the configured secret.
var ErrTokenMalformed = errors.New("token is malformed or invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities.
// The login path never surfaces it to callers; it collapses into
// ErrInvalidCredentials there.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrTaskNotFound covers both a task that does not exist and a task owned
// by somebody else. Callers get one signal so they cannot probe for other
// users' task ids.
var ErrTaskNotFound = errors.New("task not found", errors.CategoryNotFound).
	WithTextCode(TextCodeTaskNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects empty passwords before they reach the hasher.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the internal mismatch signal from the
// password hasher.
var ErrMismatchedHashAndPassword = errors.New("hashed password mismatch", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsDuplicateEmailError reports whether err represents an email conflict,
// either our structured error or a driver-level unique violation.
func IsDuplicateEmailError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeDuplicateEmail {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
