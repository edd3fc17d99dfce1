package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
	"github.com/ndewijer/portfolio-monitor/internal/service"
	"github.com/ndewijer/portfolio-monitor/internal/testutil"
)

func TestAlertHandler_Alerts(t *testing.T) {
	setupHandler := func(t *testing.T, count int) *AlertHandler {
		t.Helper()
		repo := repository.NewAlertRepository(testutil.SetupTestDB(t))
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < count; i++ {
			err := repo.InsertAlert(context.Background(), model.Alert{
				ID:       fmt.Sprintf("alert-%d", i),
				Symbol:   "RY",
				RaisedAt: base.Add(time.Duration(i) * time.Minute),
			}, true)
			if err != nil {
				t.Fatalf("Failed to insert alert: %v", err)
			}
		}
		return NewAlertHandler(service.NewAlertService(repo))
	}

	t.Run("returns newest alerts first", func(t *testing.T) {
		handler := setupHandler(t, 3)

		w := httptest.NewRecorder()
		handler.Alerts(w, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		alerts := testutil.DecodeJSON[[]model.AlertRecord](t, w)
		if len(alerts) != 3 || alerts[0].ID != "alert-2" {
			t.Errorf("Unexpected alerts %+v", alerts)
		}
	})

	t.Run("honors limit", func(t *testing.T) {
		handler := setupHandler(t, 3)

		w := httptest.NewRecorder()
		handler.Alerts(w, httptest.NewRequest(http.MethodGet, "/api/alerts?limit=1", nil))

		alerts := testutil.DecodeJSON[[]model.AlertRecord](t, w)
		if len(alerts) != 1 {
			t.Errorf("Expected 1 alert, got %d", len(alerts))
		}
	})

	t.Run("rejects invalid limit", func(t *testing.T) {
		handler := setupHandler(t, 0)

		for _, limit := range []string{"0", "-3", "many"} {
			w := httptest.NewRecorder()
			handler.Alerts(w, httptest.NewRequest(http.MethodGet, "/api/alerts?limit="+limit, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("limit=%s: expected 400, got %d", limit, w.Code)
			}
		}
	})
}
