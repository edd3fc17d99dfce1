package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/portfolio-monitor/internal/api/response"
	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/testutil"
)

func TestPositionHandler_Positions(t *testing.T) {
	t.Run("returns empty array when no positions exist", func(t *testing.T) {
		f := newHandlerFixture(t)

		w := httptest.NewRecorder()
		f.positions.Positions(w, httptest.NewRequest(http.MethodGet, "/api/positions", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("Expected empty array, got %s", w.Body.String())
		}
	})

	t.Run("returns valued positions with fallback for failed quotes", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.provider.WithPrice("RY.TO", 110)
		testutil.SeedPositions(t, f.repo,
			testutil.NewPosition().WithID(1).Build(),
			testutil.NewPosition().WithID(2).WithSymbol("TD").Build(),
		)

		w := httptest.NewRecorder()
		f.positions.Positions(w, httptest.NewRequest(http.MethodGet, "/api/positions", nil))

		snapshots := testutil.DecodeJSON[[]model.PositionSnapshot](t, w)
		if len(snapshots) != 2 {
			t.Fatalf("Expected 2 snapshots, got %d", len(snapshots))
		}
		if snapshots[0].CurrentPrice != 110 || !snapshots[0].QuoteAvailable {
			t.Errorf("Unexpected first snapshot %+v", snapshots[0])
		}
		if snapshots[1].CurrentPrice != 100 || snapshots[1].QuoteAvailable {
			t.Errorf("Expected fallback for second snapshot, got %+v", snapshots[1])
		}
	})
}

func TestPositionHandler_Position(t *testing.T) {
	f := newHandlerFixture(t)
	f.provider.WithPrice("RY.TO", 85)
	testutil.SeedPositions(t, f.repo, testutil.NewPosition().Build())

	t.Run("returns the snapshot", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/positions/1", map[string]string{"positionId": "1"})
		w := httptest.NewRecorder()

		f.positions.Position(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		snapshot := testutil.DecodeJSON[model.PositionSnapshot](t, w)
		if snapshot.ChangePercent != -15 {
			t.Errorf("Expected change -15, got %f", snapshot.ChangePercent)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/positions/7", map[string]string{"positionId": "7"})
		w := httptest.NewRecorder()

		f.positions.Position(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestPositionHandler_CreatePosition(t *testing.T) {
	validBody := map[string]any{
		"symbol":        "ry",
		"shares":        10,
		"purchasePrice": 100.0,
		"threshold":     -10.0,
	}

	t.Run("creates position and returns 201", func(t *testing.T) {
		f := newHandlerFixture(t)
		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPost, "/api/positions", nil, validBody)
		w := httptest.NewRecorder()

		f.positions.CreatePosition(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		position := testutil.DecodeJSON[model.Position](t, w)
		if position.ID != 1 || position.Symbol != "RY" || position.ThresholdPercent != -10 {
			t.Errorf("Unexpected position %+v", position)
		}
	})

	t.Run("returns 400 with field errors", func(t *testing.T) {
		f := newHandlerFixture(t)
		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPost, "/api/positions", nil, map[string]any{
			"symbol": "RY",
			"shares": -1,
		})
		w := httptest.NewRecorder()

		f.positions.CreatePosition(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
		resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
		details, ok := resp.Details.(map[string]any)
		if !ok {
			t.Fatalf("Expected field map in details, got %T", resp.Details)
		}
		for _, field := range []string{"shares", "purchasePrice", "threshold"} {
			if _, ok := details[field]; !ok {
				t.Errorf("Expected error for %s", field)
			}
		}
	})

	t.Run("returns 400 for malformed json", func(t *testing.T) {
		f := newHandlerFixture(t)
		req := httptest.NewRequest(http.MethodPost, "/api/positions", strings.NewReader("{"))
		w := httptest.NewRecorder()

		f.positions.CreatePosition(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 422 for unknown symbol", func(t *testing.T) {
		f := newHandlerFixture(t)
		body := map[string]any{"symbol": "ZZZ", "shares": 1, "purchasePrice": 1.0, "threshold": -5.0}
		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPost, "/api/positions", nil, body)
		w := httptest.NewRecorder()

		f.positions.CreatePosition(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPositionHandler_UpdatePosition(t *testing.T) {
	t.Run("updates provided fields", func(t *testing.T) {
		f := newHandlerFixture(t)
		testutil.SeedPositions(t, f.repo, testutil.NewPosition().Build())

		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPut, "/api/positions/1",
			map[string]string{"positionId": "1"}, map[string]any{"threshold": -20.0})
		w := httptest.NewRecorder()

		f.positions.UpdatePosition(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		position := testutil.DecodeJSON[model.Position](t, w)
		if position.ThresholdPercent != -20 || position.Shares != 10 {
			t.Errorf("Unexpected position %+v", position)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPut, "/api/positions/4",
			map[string]string{"positionId": "4"}, map[string]any{"shares": 2})
		w := httptest.NewRecorder()

		f.positions.UpdatePosition(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		f := newHandlerFixture(t)
		testutil.SeedPositions(t, f.repo, testutil.NewPosition().Build())

		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPut, "/api/positions/1",
			map[string]string{"positionId": "1"}, map[string]any{"purchase_price": 3.0})
		w := httptest.NewRecorder()

		f.positions.UpdatePosition(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestPositionHandler_DeletePosition(t *testing.T) {
	t.Run("returns renumbered list", func(t *testing.T) {
		f := newHandlerFixture(t)
		testutil.SeedPositions(t, f.repo,
			testutil.NewPosition().WithID(1).Build(),
			testutil.NewPosition().WithID(2).WithSymbol("TD").Build(),
		)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/positions/1", map[string]string{"positionId": "1"})
		w := httptest.NewRecorder()

		f.positions.DeletePosition(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		positions := testutil.DecodeJSON[[]model.Position](t, w)
		if len(positions) != 1 || positions[0].ID != 1 || positions[0].Symbol != "TD" {
			t.Errorf("Unexpected remaining positions %+v", positions)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/positions/1", map[string]string{"positionId": "1"})
		w := httptest.NewRecorder()

		f.positions.DeletePosition(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
