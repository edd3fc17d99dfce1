package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/service"
	"github.com/ndewijer/portfolio-monitor/internal/testutil"
)

func newAggregator(provider *testutil.MockQuoteProvider) *service.Aggregator {
	return service.NewAggregator(provider, ".TO", 5, zerolog.Nop())
}

// TestAggregator_FetchAll tests the bounded fan-out/fan-in over the quote provider.
//
// WHY: Both the API and the monitor depend on getting exactly one snapshot per
// position. A dropped entry would hide a position from the summary and from
// threshold checks.
func TestAggregator_FetchAll(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice for no positions", func(t *testing.T) {
		provider := testutil.NewMockQuoteProvider()

		snapshots := newAggregator(provider).FetchAll(ctx, nil)

		if len(snapshots) != 0 {
			t.Errorf("Expected 0 snapshots, got %d", len(snapshots))
		}
		if provider.TotalCalls() != 0 {
			t.Errorf("Expected no provider calls, got %d", provider.TotalCalls())
		}
	})

	t.Run("prices positions with normalized symbols", func(t *testing.T) {
		provider := testutil.NewMockQuoteProvider().
			WithPrice("RY.TO", 85).
			WithDividendYield("RY.TO", 4)
		position := testutil.NewPosition().Build()

		snapshots := newAggregator(provider).FetchAll(ctx, []model.Position{position})

		if len(snapshots) != 1 {
			t.Fatalf("Expected 1 snapshot, got %d", len(snapshots))
		}
		s := snapshots[0]
		if s.CurrentPrice != 85 {
			t.Errorf("Expected current price 85, got %f", s.CurrentPrice)
		}
		if s.ChangePercent != -15 {
			t.Errorf("Expected change percent -15, got %f", s.ChangePercent)
		}
		if !s.QuoteAvailable {
			t.Error("Expected QuoteAvailable to be true")
		}
		if s.DividendYield == nil || *s.DividendYield != 4 {
			t.Errorf("Expected dividend yield 4, got %v", s.DividendYield)
		}
		if s.Symbol != "RY" {
			t.Errorf("Expected stored symbol RY, got %s", s.Symbol)
		}
		if provider.Calls("RY.TO") != 1 {
			t.Errorf("Expected one call for RY.TO, got %d", provider.Calls("RY.TO"))
		}
	})

	t.Run("provider failure falls back to purchase price", func(t *testing.T) {
		provider := testutil.NewMockQuoteProvider().
			WithError("RY.TO", errors.New("connection reset"))
		position := testutil.NewPosition().WithPurchasePrice(42.5).Build()

		s := newAggregator(provider).FetchAll(ctx, []model.Position{position})[0]

		if s.CurrentPrice != 42.5 {
			t.Errorf("Expected fallback price 42.5, got %f", s.CurrentPrice)
		}
		if s.ChangePercent != 0 {
			t.Errorf("Expected change percent 0, got %f", s.ChangePercent)
		}
		if s.QuoteAvailable {
			t.Error("Expected QuoteAvailable to be false")
		}
		if s.DividendYield != nil {
			t.Errorf("Expected nil dividend yield, got %v", *s.DividendYield)
		}
	})

	t.Run("non-positive price falls back", func(t *testing.T) {
		provider := testutil.NewMockQuoteProvider().WithPrice("RY.TO", 0)

		s := newAggregator(provider).FetchAll(ctx, []model.Position{testutil.NewPosition().Build()})[0]

		if s.QuoteAvailable || s.CurrentPrice != 100 {
			t.Errorf("Expected fallback snapshot, got %+v", s)
		}
	})

	t.Run("returns one snapshot per position regardless of failures", func(t *testing.T) {
		for _, failing := range []int{0, 1, 7, 20} {
			t.Run(fmt.Sprintf("%d failing", failing), func(t *testing.T) {
				provider := testutil.NewMockQuoteProvider()
				positions := make([]model.Position, 20)
				for i := range positions {
					symbol := fmt.Sprintf("S%d", i)
					positions[i] = testutil.NewPosition().WithID(i + 1).WithSymbol(symbol).Build()
					if i >= failing {
						provider.WithPrice(symbol+".TO", 110)
					}
				}

				snapshots := newAggregator(provider).FetchAll(ctx, positions)

				if len(snapshots) != len(positions) {
					t.Fatalf("Expected %d snapshots, got %d", len(positions), len(snapshots))
				}
				fallbacks := 0
				for i, s := range snapshots {
					if s.PositionID != positions[i].ID {
						t.Errorf("Slot %d: expected position %d, got %d", i, positions[i].ID, s.PositionID)
					}
					if !s.QuoteAvailable {
						fallbacks++
					}
				}
				if fallbacks != failing {
					t.Errorf("Expected %d fallbacks, got %d", failing, fallbacks)
				}
			})
		}
	})

	t.Run("never exceeds the concurrency limit", func(t *testing.T) {
		provider := testutil.NewMockQuoteProvider().WithDelay(20 * time.Millisecond)
		positions := make([]model.Position, 12)
		for i := range positions {
			symbol := testutil.MakeSymbol("S")
			positions[i] = testutil.NewPosition().WithID(i + 1).WithSymbol(symbol).Build()
			provider.WithPrice(symbol+".TO", 100)
		}

		snapshots := newAggregator(provider).FetchAll(ctx, positions)

		if len(snapshots) != 12 {
			t.Fatalf("Expected 12 snapshots, got %d", len(snapshots))
		}
		if got := provider.MaxInFlight(); got > 5 {
			t.Errorf("Expected at most 5 calls in flight, got %d", got)
		}
		if got := provider.TotalCalls(); got != 12 {
			t.Errorf("Expected 12 provider calls, got %d", got)
		}
	})

	t.Run("canceled context degrades to fallback snapshots", func(t *testing.T) {
		provider := testutil.NewMockQuoteProvider().
			WithPrice("RY.TO", 85).
			WithDelay(time.Second)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		snapshots := newAggregator(provider).FetchAll(cctx, []model.Position{testutil.NewPosition().Build()})

		if len(snapshots) != 1 {
			t.Fatalf("Expected 1 snapshot, got %d", len(snapshots))
		}
		if snapshots[0].QuoteAvailable {
			t.Error("Expected fallback snapshot after cancellation")
		}
	})
}

func TestSortSnapshots(t *testing.T) {
	snapshots := []model.PositionSnapshot{{PositionID: 3}, {PositionID: 1}, {PositionID: 2}}

	service.SortSnapshots(snapshots)

	for i, s := range snapshots {
		if s.PositionID != i+1 {
			t.Errorf("Slot %d: expected id %d, got %d", i, i+1, s.PositionID)
		}
	}
}
