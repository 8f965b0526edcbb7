package handler

import (
	"log/slog"
	"net/http"

	"github.com/riteshkumar/loan-ledger/internal/errors"
	"github.com/riteshkumar/loan-ledger/internal/validation"
	u "github.com/riteshkumar/loan-ledger/internal/utils"
)

// writeServiceError maps domain errors onto status codes. Unclassified errors
// are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, action string) {
	switch {
	case errors.IsNotFound(err):
		u.WriteError(w, http.StatusNotFound, err.Error())
	case errors.IsConflict(err):
		u.WriteError(w, http.StatusConflict, err.Error())
	case errors.IsUnauthorized(err):
		u.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errors.ErrForbidden):
		u.WriteError(w, http.StatusForbidden, err.Error())
	case errors.IsValidationError(err):
		u.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.IsInvalidRequest(err):
		u.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("internal server error during "+action, "error", err.Error())
		u.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeValidationErrors(w http.ResponseWriter, fieldErrors []validation.FieldError) {
	u.WriteResponse(w, http.StatusBadRequest, fieldErrors, "Invalid request data")
}
