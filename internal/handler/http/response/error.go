package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/timewindow"
	"github.com/shiftsync/timeclock-backend/internal/pkg/validator"
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
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrMappingNotFound):
		NotFound(w, "Employee has no Clover mapping")

	// Shift domain errors
	case errors.Is(err, shift.ErrEmptyBatch):
		BadRequest(w, "No shifts to promote", nil)

	// Time conversion errors
	case errors.Is(err, timewindow.ErrInvalidTimeInput):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timewindow.ErrInvalidAnchor):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
