package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-monitor/internal/api/response"
	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/validation"
)

// parseJSON decodes the request body into T. Unknown fields are rejected so
// typos in field names do not silently keep the old value.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}
	return v, nil
}

// positionID reads the positionId URL parameter. Routes using it are guarded
// by ValidatePositionIDMiddleware.
func positionID(r *http.Request) (int, error) {
	return validation.ParsePositionID(chi.URLParam(r, "positionId"))
}

// respondServiceError maps service errors onto HTTP status codes.
// message is used for errors without a more specific mapping.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
	case errors.Is(err, apperrors.ErrInvalidPositionID):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPositionID.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPositionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPositionNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrSymbolNotFound):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrSymbolNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrStoreConflict):
		response.RespondError(w, http.StatusConflict, apperrors.ErrStoreConflict.Error(), err.Error())
	case errors.Is(err, apperrors.ErrQuoteUnavailable):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrQuoteUnavailable.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}
