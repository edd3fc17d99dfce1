// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-monitor/internal/api/response"
	"github.com/ndewijer/portfolio-monitor/internal/validation"
)

// ValidatePositionIDMiddleware validates that the positionId URL parameter is
// a positive integer. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/{positionId}", func(r chi.Router) {
//	    r.Use(middleware.ValidatePositionIDMiddleware)
//	    r.Get("/", handler.Position)
//	    r.Put("/", handler.UpdatePosition)
//	})
func ValidatePositionIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "positionId")

		if raw == "" {
			response.RespondError(w, http.StatusBadRequest, "position ID is required", nil)
			return
		}

		if _, err := validation.ParsePositionID(raw); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid position ID", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
