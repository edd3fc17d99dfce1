package handlers

import (
	"net/http"

	"github.com/ndewijer/portfolio-monitor/internal/api/request"
	"github.com/ndewijer/portfolio-monitor/internal/api/response"
	"github.com/ndewijer/portfolio-monitor/internal/service"
	"github.com/ndewijer/portfolio-monitor/internal/validation"
)

// PositionHandler handles HTTP requests for position endpoints.
// Reads go through the PortfolioService so every returned position carries a
// live valuation; writes go through the PositionService.
type PositionHandler struct {
	positionService  *service.PositionService
	portfolioService *service.PortfolioService
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(positionService *service.PositionService, portfolioService *service.PortfolioService) *PositionHandler {
	return &PositionHandler{
		positionService:  positionService,
		portfolioService: portfolioService,
	}
}

// Positions handles GET requests to list all positions with current prices.
//
// Endpoint: GET /api/positions
// Response: 200 OK with array of PositionSnapshot sorted by id
// Error: 500 Internal Server Error if the store cannot be read
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.portfolioService.GetSnapshots(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to retrieve positions")
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}

// Position handles GET requests for a single position with its current price.
//
// Endpoint: GET /api/positions/{positionId}
// Response: 200 OK with PositionSnapshot
// Error: 400 Bad Request if the id is invalid (validated by middleware)
// Error: 404 Not Found if no position has that id
func (h *PositionHandler) Position(w http.ResponseWriter, r *http.Request) {
	id, err := positionID(r)
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	snapshot, err := h.portfolioService.GetSnapshot(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve position")
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// CreatePosition handles POST requests to add a position.
//
// Endpoint: POST /api/positions
// Request Body: CreatePositionRequest (symbol, shares, purchasePrice, threshold)
// Response: 201 Created with Position
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 422 Unprocessable Entity if the symbol is unknown to the quote provider
// Error: 502 Bad Gateway if the quote provider could not be reached
func (h *PositionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := validation.ValidateCreatePosition(req)
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	position, err := h.positionService.AddPosition(r.Context(), input)
	if err != nil {
		respondServiceError(w, err, "failed to create position")
		return
	}

	response.RespondJSON(w, http.StatusCreated, position)
}

// UpdatePosition handles PUT requests to change fields of a position.
//
// Endpoint: PUT /api/positions/{positionId}
// Request Body: UpdatePositionRequest (all fields optional)
// Response: 200 OK with updated Position
// Error: 400 Bad Request if the id, body or values are invalid
// Error: 404 Not Found if no position has that id
// Error: 409 Conflict if concurrent writers kept winning
func (h *PositionHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := positionID(r)
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	req, err := parseJSON[request.UpdatePositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	position, err := h.positionService.UpdatePosition(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err, "failed to update position")
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// DeletePosition handles DELETE requests. The remaining positions are
// renumbered, so the response carries the new list.
//
// Endpoint: DELETE /api/positions/{positionId}
// Response: 200 OK with the renumbered array of Position
// Error: 404 Not Found if no position has that id
func (h *PositionHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id, err := positionID(r)
	if err != nil {
		respondServiceError(w, err, "")
		return
	}

	positions, err := h.positionService.DeletePosition(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "failed to delete position")
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}
