package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Lookup errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case timeclock.IsNotFound(err):
		NotFound(w, err.Error())

	// Timeclock domain errors
	case errors.Is(err, timeclock.ErrAlreadyClockedIn):
		Conflict(w, err.Error())
	case timeclock.IsValidation(err):
		BadRequest(w, err.Error(), nil)
	case timeclock.IsAuthorization(err):
		Forbidden(w, err.Error())
	case timeclock.IsState(err):
		Conflict(w, err.Error())

	// Role errors
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrSettingsAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
