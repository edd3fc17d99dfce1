package model

// Position represents a tracked holding as persisted in the position store.
// The JSON field names match the stored document format.
type Position struct {
	ID               int     `json:"id"`
	Symbol           string  `json:"symbol"`
	Shares           int     `json:"shares"`
	PurchasePrice    float64 `json:"purchase_price"`
	ThresholdPercent float64 `json:"threshold"` // Alert when change percent is at or below this value
}

// PositionInput carries the user-editable fields of a position for add and update.
type PositionInput struct {
	Symbol           string
	Shares           int
	PurchasePrice    float64
	ThresholdPercent float64
}

// NextPositionID returns max(existing ids) + 1, or 1 for an empty list.
func NextPositionID(positions []Position) int {
	maxID := 0
	for _, p := range positions {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// RenumberPositions reassigns ids to the contiguous range 1..N in list order.
// Ids issued before a delete are not stable across this call.
func RenumberPositions(positions []Position) {
	for i := range positions {
		positions[i].ID = i + 1
	}
}

// FindPosition returns the index of the position with the given id, or -1.
func FindPosition(positions []Position, id int) int {
	for i, p := range positions {
		if p.ID == id {
			return i
		}
	}
	return -1
}
