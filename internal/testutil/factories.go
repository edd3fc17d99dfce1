package testutil

import (
	"context"
	"testing"

	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
)

// PositionBuilder provides a fluent interface for creating test positions.
//
// Example usage:
//
//	// Simple creation with defaults
//	position := testutil.NewPosition().Build()
//
//	// Customized position stored in a repository
//	position := testutil.NewPosition().
//	    WithSymbol("TD").
//	    WithShares(5).
//	    Store(t, repo)
type PositionBuilder struct {
	ID               int
	Symbol           string
	Shares           int
	PurchasePrice    float64
	ThresholdPercent float64
}

// NewPosition creates a PositionBuilder with sensible defaults.
func NewPosition() *PositionBuilder {
	return &PositionBuilder{
		ID:               1,
		Symbol:           "RY",
		Shares:           10,
		PurchasePrice:    100,
		ThresholdPercent: -10,
	}
}

// WithID sets a custom ID.
func (b *PositionBuilder) WithID(id int) *PositionBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *PositionBuilder) WithSymbol(symbol string) *PositionBuilder {
	b.Symbol = symbol
	return b
}

// WithShares sets a custom share count.
func (b *PositionBuilder) WithShares(shares int) *PositionBuilder {
	b.Shares = shares
	return b
}

// WithPurchasePrice sets a custom purchase price.
func (b *PositionBuilder) WithPurchasePrice(price float64) *PositionBuilder {
	b.PurchasePrice = price
	return b
}

// WithThreshold sets a custom alert threshold in percent.
func (b *PositionBuilder) WithThreshold(threshold float64) *PositionBuilder {
	b.ThresholdPercent = threshold
	return b
}

// Build returns the position without storing it.
func (b *PositionBuilder) Build() model.Position {
	return model.Position{
		ID:               b.ID,
		Symbol:           b.Symbol,
		Shares:           b.Shares,
		PurchasePrice:    b.PurchasePrice,
		ThresholdPercent: b.ThresholdPercent,
	}
}

// Store appends the position to the repository's list with the next free id
// and returns it as stored.
func (b *PositionBuilder) Store(t *testing.T, repo *repository.PositionRepository) model.Position {
	t.Helper()

	var stored model.Position
	_, err := repo.Update(context.Background(), func(positions []model.Position) ([]model.Position, error) {
		stored = b.Build()
		stored.ID = model.NextPositionID(positions)
		return append(positions, stored), nil
	})
	if err != nil {
		t.Fatalf("Failed to store position: %v", err)
	}
	return stored
}

// NewTestPositionRepository creates a PositionRepository on a fresh in-memory
// SQLite database with plain JSON documents.
func NewTestPositionRepository(t *testing.T) *repository.PositionRepository {
	t.Helper()

	db := SetupTestDB(t)
	codec, err := repository.NewCodec("")
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}
	return repository.NewPositionRepository(repository.NewSQLiteStore(db), codec, "portfolio", 10)
}

// SeedPositions saves the given positions as the whole stored list.
func SeedPositions(t *testing.T, repo *repository.PositionRepository, positions ...model.Position) {
	t.Helper()

	if err := repo.Save(context.Background(), positions); err != nil {
		t.Fatalf("Failed to seed positions: %v", err)
	}
}
