package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/portfolio-monitor/internal/model"
)

func TestNextPositionID(t *testing.T) {
	assert.Equal(t, 1, model.NextPositionID(nil))
	assert.Equal(t, 8, model.NextPositionID([]model.Position{{ID: 3}, {ID: 7}, {ID: 2}}))
}

// TestRenumberPositions checks the delete invariant: remaining ids become 1..N
// in their original relative order.
//
// WHY: The API exposes "id = row number". Gaps after a delete would break
// lookups by row.
func TestRenumberPositions(t *testing.T) {
	positions := []model.Position{
		{ID: 1, Symbol: "RY"},
		{ID: 3, Symbol: "TD"},
		{ID: 4, Symbol: "ENB"},
	}

	model.RenumberPositions(positions)

	assert.Equal(t, []int{1, 2, 3}, []int{positions[0].ID, positions[1].ID, positions[2].ID})
	assert.Equal(t, []string{"RY", "TD", "ENB"}, []string{positions[0].Symbol, positions[1].Symbol, positions[2].Symbol})
}

func TestFindPosition(t *testing.T) {
	positions := []model.Position{{ID: 1}, {ID: 2}}
	assert.Equal(t, 1, model.FindPosition(positions, 2))
	assert.Equal(t, -1, model.FindPosition(positions, 9))
}

func TestChangePercent(t *testing.T) {
	assert.InDelta(t, -15.0, model.ChangePercent(100, 85), 1e-9)
	assert.InDelta(t, 10.0, model.ChangePercent(100, 110), 1e-9)
	assert.Equal(t, 0.0, model.ChangePercent(0, 50))
}

func TestPositionSnapshot_ProfitLoss(t *testing.T) {
	s := model.PositionSnapshot{Shares: 5, PurchasePrice: 200, CurrentPrice: 180}

	assert.InDelta(t, 900.0, s.Value(), 1e-9)
	assert.InDelta(t, 1000.0, s.PurchaseValue(), 1e-9)
	assert.InDelta(t, -100.0, s.ProfitLoss(), 1e-9)
}
