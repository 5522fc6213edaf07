// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("duplicate entry")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IsExpected reports whether the error is a business-rule rejection with a
// dedicated status mapping, as opposed to an unexpected internal failure.
func IsExpected(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound, ErrDuplicate, ErrValidation,
		ErrForbidden, ErrUnauthorized, ErrInvalidCredentials,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// RespondError maps domain errors to JSON error responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		// Single message for unknown email and wrong password alike.
		Error(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, userSafeMessage(err, "Not found"))
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, userSafeMessage(err, "Already exists"))
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, userSafeMessage(err, "Validation failed"))
	default:
		Error(w, http.StatusInternalServerError, "Server error")
	}
}

// userSafeMessage returns the wrapping context added by the service layer,
// falling back when the sentinel was returned bare. Services wrap as
// fmt.Errorf("%w: detail", sentinel), so the sentinel text is a prefix.
func userSafeMessage(err error, fallback string) string {
	for _, sentinel := range []error{ErrNotFound, ErrDuplicate, ErrValidation} {
		if !errors.Is(err, sentinel) {
			continue
		}
		if detail, found := strings.CutPrefix(err.Error(), sentinel.Error()+": "); found {
			return detail
		}
	}
	return fallback
}
