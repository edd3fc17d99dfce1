package request

// CreatePositionRequest represents the request body for adding a position.
// Numeric fields are pointers so a missing value can be told apart from zero.
type CreatePositionRequest struct {
	Symbol           string   `json:"symbol"`
	Shares           *int     `json:"shares"`
	PurchasePrice    *float64 `json:"purchasePrice"`
	ThresholdPercent *float64 `json:"threshold"`
}

// UpdatePositionRequest represents the request body for updating a position.
// Only provided fields are changed.
type UpdatePositionRequest struct {
	Symbol           *string  `json:"symbol,omitempty"`
	Shares           *int     `json:"shares,omitempty"`
	PurchasePrice    *float64 `json:"purchasePrice,omitempty"`
	ThresholdPercent *float64 `json:"threshold,omitempty"`
}
