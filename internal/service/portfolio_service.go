package service

import (
	"context"

	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
	"github.com/ndewijer/portfolio-monitor/internal/validation"
	"github.com/ndewijer/portfolio-monitor/internal/yahoo"
)

// PortfolioService values the stored positions with live quotes.
type PortfolioService struct {
	positionRepo *repository.PositionRepository
	aggregator   *Aggregator
	provider     yahoo.Provider
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(positionRepo *repository.PositionRepository, aggregator *Aggregator, provider yahoo.Provider) *PortfolioService {
	return &PortfolioService{
		positionRepo: positionRepo,
		aggregator:   aggregator,
		provider:     provider,
	}
}

// GetSnapshots loads all positions, prices them and returns the snapshots
// sorted by id. Positions whose quote failed are valued at purchase price.
func (s *PortfolioService) GetSnapshots(ctx context.Context) ([]model.PositionSnapshot, error) {
	positions, err := s.positionRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := s.aggregator.FetchAll(ctx, positions)
	SortSnapshots(snapshots)
	return snapshots, nil
}

// GetSnapshot prices a single position.
// Returns apperrors.ErrPositionNotFound if no such position exists.
func (s *PortfolioService) GetSnapshot(ctx context.Context, id int) (model.PositionSnapshot, error) {
	positions, err := s.positionRepo.Load(ctx)
	if err != nil {
		return model.PositionSnapshot{}, err
	}

	i := model.FindPosition(positions, id)
	if i < 0 {
		return model.PositionSnapshot{}, apperrors.ErrPositionNotFound
	}

	return s.aggregator.FetchAll(ctx, positions[i:i+1])[0], nil
}

// GetSummary returns all snapshots together with the portfolio totals.
func (s *PortfolioService) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	snapshots, err := s.GetSnapshots(ctx)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	return model.PortfolioSummary{
		Positions: snapshots,
		Totals:    Summarize(snapshots),
	}, nil
}

// SearchSymbol looks up the company name and current price of a ticker.
// Unlike the aggregator it does not fall back: provider errors are returned.
//
// Parameters:
//   - ctx: Context for cancellation
//   - symbol: Raw ticker as entered by the user (e.g., "ry")
//
// Returns:
//   - model.SymbolQuote: Normalized symbol, company name and price
//   - error: *validation.Error for a malformed ticker,
//     apperrors.ErrSymbolNotFound, or apperrors.ErrQuoteUnavailable
func (s *PortfolioService) SearchSymbol(ctx context.Context, symbol string) (model.SymbolQuote, error) {
	if err := validation.ValidateSymbol(symbol); err != nil {
		return model.SymbolQuote{}, err
	}
	normalized := yahoo.NormalizeSymbol(symbol, s.aggregator.MarketSuffix())

	quote, err := s.provider.GetQuote(ctx, normalized)
	if err != nil {
		return model.SymbolQuote{}, err
	}

	name := quote.CompanyName
	if name == "" {
		name, err = s.provider.GetCompanyName(ctx, normalized)
		if err != nil {
			return model.SymbolQuote{}, err
		}
	}

	return model.SymbolQuote{
		Symbol:       normalized,
		CompanyName:  name,
		CurrentPrice: quote.Price,
		Currency:     quote.Currency,
	}, nil
}
