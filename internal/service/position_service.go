package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ndewijer/portfolio-monitor/internal/api/request"
	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/model"
	"github.com/ndewijer/portfolio-monitor/internal/repository"
	"github.com/ndewijer/portfolio-monitor/internal/validation"
	"github.com/ndewijer/portfolio-monitor/internal/yahoo"
)

// PositionService handles add, update and delete of tracked positions.
// Every mutation is a full read-modify-write of the stored list through
// PositionRepository.Update, so concurrent writers never clobber each other.
type PositionService struct {
	positionRepo *repository.PositionRepository
	provider     yahoo.Provider
	marketSuffix string
}

// NewPositionService creates a new PositionService.
//
// Parameters:
//   - positionRepo: Store of the position list
//   - provider: Quote source used to check that a symbol exists
//   - marketSuffix: Exchange suffix appended to symbols before provider calls
func NewPositionService(positionRepo *repository.PositionRepository, provider yahoo.Provider, marketSuffix string) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
		provider:     provider,
		marketSuffix: marketSuffix,
	}
}

// AddPosition verifies the symbol with the quote provider and appends a new
// position with id max(existing)+1.
//
// Parameters:
//   - ctx: Context for cancellation
//   - input: Validated fields (see validation.ValidateCreatePosition)
//
// Returns:
//   - model.Position: The stored position including its id
//   - error: apperrors.ErrSymbolNotFound when the provider does not know the
//     symbol, or a store error
func (s *PositionService) AddPosition(ctx context.Context, input model.PositionInput) (model.Position, error) {
	if err := s.verifySymbol(ctx, input.Symbol); err != nil {
		return model.Position{}, err
	}

	var created model.Position
	_, err := s.positionRepo.Update(ctx, func(positions []model.Position) ([]model.Position, error) {
		created = model.Position{
			ID:               model.NextPositionID(positions),
			Symbol:           input.Symbol,
			Shares:           input.Shares,
			PurchasePrice:    input.PurchasePrice,
			ThresholdPercent: input.ThresholdPercent,
		}
		return append(positions, created), nil
	})
	if err != nil {
		return model.Position{}, err
	}
	return created, nil
}

// UpdatePosition changes the provided fields of a position in place.
// Omitted fields keep their stored value. A changed symbol is verified with
// the quote provider before anything is written.
//
// Returns:
//   - model.Position: The updated position
//   - error: *validation.Error for invalid fields, apperrors.ErrPositionNotFound,
//     apperrors.ErrSymbolNotFound, or a store error
func (s *PositionService) UpdatePosition(ctx context.Context, id int, req request.UpdatePositionRequest) (model.Position, error) {
	if req.Symbol != nil {
		symbol := validation.NormalizeSymbolInput(*req.Symbol)
		if err := validation.ValidateSymbol(symbol); err != nil {
			return model.Position{}, err
		}
		if err := s.verifySymbol(ctx, symbol); err != nil {
			return model.Position{}, err
		}
	}

	var updated model.Position
	_, err := s.positionRepo.Update(ctx, func(positions []model.Position) ([]model.Position, error) {
		i := model.FindPosition(positions, id)
		if i < 0 {
			return nil, apperrors.ErrPositionNotFound
		}

		input, err := validation.ValidateUpdatePosition(req, positions[i])
		if err != nil {
			return nil, err
		}

		positions[i].Symbol = input.Symbol
		positions[i].Shares = input.Shares
		positions[i].PurchasePrice = input.PurchasePrice
		positions[i].ThresholdPercent = input.ThresholdPercent
		updated = positions[i]
		return positions, nil
	})
	if err != nil {
		return model.Position{}, err
	}
	return updated, nil
}

// DeletePosition removes a position and renumbers the remaining ones to
// 1..N-1 in their original order. Ids handed out before the delete are not
// stable afterwards.
//
// Returns:
//   - []model.Position: The renumbered list
//   - error: apperrors.ErrPositionNotFound or a store error
func (s *PositionService) DeletePosition(ctx context.Context, id int) ([]model.Position, error) {
	return s.positionRepo.Update(ctx, func(positions []model.Position) ([]model.Position, error) {
		i := model.FindPosition(positions, id)
		if i < 0 {
			return nil, apperrors.ErrPositionNotFound
		}

		positions = slices.Delete(positions, i, i+1)
		model.RenumberPositions(positions)
		return positions, nil
	})
}

// verifySymbol checks that the provider can resolve a company name for the
// normalized symbol.
func (s *PositionService) verifySymbol(ctx context.Context, symbol string) error {
	normalized := yahoo.NormalizeSymbol(symbol, s.marketSuffix)

	_, err := s.provider.GetCompanyName(ctx, normalized)
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrSymbolNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrQuoteUnavailable, normalized, err)
}
