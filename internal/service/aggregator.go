package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/portfolio-monitor/internal/metrics"
	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/yahoo"
)

var errNonPositivePrice = errors.New("provider returned a non-positive price")

// DefaultConcurrency is the number of provider calls kept in flight when the
// configured value is not positive.
const DefaultConcurrency = 5

// Aggregator fetches quotes for a list of positions on a bounded worker pool
// and turns them into snapshots. It is shared by the API and the monitor.
type Aggregator struct {
	provider     yahoo.Provider
	marketSuffix string
	concurrency  int
	log          zerolog.Logger
}

// NewAggregator creates a new Aggregator.
//
// Parameters:
//   - provider: Quote source, called with normalized symbols
//   - marketSuffix: Exchange suffix appended to every symbol (e.g., ".TO")
//   - concurrency: Maximum number of provider calls in flight
//   - log: Parent logger
func NewAggregator(provider yahoo.Provider, marketSuffix string, concurrency int, log zerolog.Logger) *Aggregator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{
		provider:     provider,
		marketSuffix: marketSuffix,
		concurrency:  concurrency,
		log:          log.With().Str("component", "aggregator").Logger(),
	}
}

// MarketSuffix returns the suffix used to normalize symbols.
func (a *Aggregator) MarketSuffix() string {
	return a.marketSuffix
}

// FetchAll returns one snapshot per position. Slot i of the result belongs to
// positions[i]; callers that present the list sort it by id.
//
// A provider failure never aborts the batch. The affected position gets a
// fallback snapshot priced at its purchase price with QuoteAvailable false.
// FetchAll blocks until every task has finished.
func (a *Aggregator) FetchAll(ctx context.Context, positions []model.Position) []model.PositionSnapshot {
	snapshots := make([]model.PositionSnapshot, len(positions))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, position := range positions {
		g.Go(func() error {
			snapshots[i] = a.fetchOne(ctx, position)
			return nil
		})
	}

	// Tasks never return an error.
	_ = g.Wait()

	return snapshots
}

func (a *Aggregator) fetchOne(ctx context.Context, position model.Position) model.PositionSnapshot {
	symbol := yahoo.NormalizeSymbol(position.Symbol, a.marketSuffix)

	start := time.Now()
	quote, err := a.provider.GetQuote(ctx, symbol)
	metrics.QuoteFetchDuration.Observe(time.Since(start).Seconds())

	if err == nil && quote.Price <= 0 {
		err = errNonPositivePrice
	}
	if err != nil {
		metrics.QuoteFetches.WithLabelValues(metrics.ResultFallback).Inc()
		a.log.Warn().
			Err(err).
			Int("position_id", position.ID).
			Str("symbol", symbol).
			Msg("Quote unavailable, using purchase price")
		return FallbackSnapshot(position)
	}

	metrics.QuoteFetches.WithLabelValues(metrics.ResultSuccess).Inc()
	return model.PositionSnapshot{
		PositionID:       position.ID,
		Symbol:           position.Symbol,
		Shares:           position.Shares,
		PurchasePrice:    position.PurchasePrice,
		CurrentPrice:     quote.Price,
		ChangePercent:    model.ChangePercent(position.PurchasePrice, quote.Price),
		ThresholdPercent: position.ThresholdPercent,
		DividendYield:    quote.DividendYield,
		QuoteAvailable:   true,
	}
}

// FallbackSnapshot values a position at its purchase price.
func FallbackSnapshot(position model.Position) model.PositionSnapshot {
	return model.PositionSnapshot{
		PositionID:       position.ID,
		Symbol:           position.Symbol,
		Shares:           position.Shares,
		PurchasePrice:    position.PurchasePrice,
		CurrentPrice:     position.PurchasePrice,
		ChangePercent:    0,
		ThresholdPercent: position.ThresholdPercent,
		QuoteAvailable:   false,
	}
}

// SortSnapshots orders snapshots by position id in place.
func SortSnapshots(snapshots []model.PositionSnapshot) {
	slices.SortFunc(snapshots, func(a, b model.PositionSnapshot) int {
		return cmp.Compare(a.PositionID, b.PositionID)
	})
}
