package handlers

import (
	"testing"

	"github.com/ndewijer/portfolio-monitor/internal/repository"
	"github.com/ndewijer/portfolio-monitor/internal/testutil"
)

type handlerFixture struct {
	repo      *repository.PositionRepository
	provider  *testutil.MockQuoteProvider
	positions *PositionHandler
	portfolio *PortfolioHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	svc := testutil.NewTestServices(t)
	svc.Provider.
		WithCompanyName("RY.TO", "Royal Bank of Canada").
		WithCompanyName("TD.TO", "Toronto-Dominion Bank")

	return &handlerFixture{
		repo:      svc.Positions,
		provider:  svc.Provider,
		positions: NewPositionHandler(svc.PositionService, svc.PortfolioService),
		portfolio: NewPortfolioHandler(svc.PortfolioService),
	}
}
