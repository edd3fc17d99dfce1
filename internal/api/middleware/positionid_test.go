package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-monitor/internal/api/middleware"
)

func TestValidatePositionIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantCalled bool
	}{
		{"valid id", "3", http.StatusOK, true},
		{"missing id", "", http.StatusBadRequest, false},
		{"zero", "0", http.StatusBadRequest, false},
		{"negative", "-1", http.StatusBadRequest, false},
		{"not a number", "abc", http.StatusBadRequest, false},
		{"uuid", "550e8400-e29b-41d4-a716-446655440000", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/positions/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("positionId", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			middleware.ValidatePositionIDMiddleware(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if handlerCalled != tt.wantCalled {
				t.Errorf("Expected handler called = %v, got %v", tt.wantCalled, handlerCalled)
			}
		})
	}
}
