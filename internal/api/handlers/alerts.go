package handlers

import (
	"net/http"
	"strconv"

	"github.com/ndewijer/portfolio-monitor/internal/api/response"
	"github.com/ndewijer/portfolio-monitor/internal/service"
)

// AlertHandler serves the log of alerts raised by the monitor.
type AlertHandler struct {
	alertService *service.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// Alerts handles GET requests for recent alerts, newest first.
//
// Endpoint: GET /api/alerts?limit=N
// Response: 200 OK with array of AlertRecord
// Error: 400 Bad Request if limit is not a positive integer
func (h *AlertHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(w, http.StatusBadRequest, "limit must be a positive integer", raw)
			return
		}
		limit = n
	}

	alerts, err := h.alertService.GetRecentAlerts(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve alerts")
		return
	}

	response.RespondJSON(w, http.StatusOK, alerts)
}
