package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/portfolio-monitor/internal/api/response"
	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/service"
)

// PortfolioHandler handles portfolio-wide HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// PortfolioSummary handles GET requests for the valued positions and totals.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with PortfolioSummary
// Error: 500 Internal Server Error if the store cannot be read
func (h *PortfolioHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetSummary(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to get portfolio summary")
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// SearchSymbol handles GET requests to look up a ticker.
//
// Endpoint: GET /api/quotes/{symbol}
// Response: 200 OK with SymbolQuote
// Error: 400 Bad Request if the symbol is malformed
// Error: 404 Not Found if the quote provider does not know the symbol
// Error: 502 Bad Gateway if the quote provider failed
func (h *PortfolioHandler) SearchSymbol(w http.ResponseWriter, r *http.Request) {
	quote, err := h.portfolioService.SearchSymbol(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		if errors.Is(err, apperrors.ErrSymbolNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), err.Error())
			return
		}
		respondServiceError(w, err, "failed to look up symbol")
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}
