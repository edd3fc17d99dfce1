package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-monitor/internal/repository"
	"github.com/ndewijer/portfolio-monitor/internal/service"
)

// TestMarketSuffix is the market suffix used by all test services.
const TestMarketSuffix = ".TO"

// TestServices bundles the services of the application wired to one in-memory
// database and one mock quote provider.
type TestServices struct {
	DB        *sql.DB
	Positions *repository.PositionRepository
	Alerts    *repository.AlertRepository
	Provider  *MockQuoteProvider

	Aggregator       *service.Aggregator
	PositionService  *service.PositionService
	PortfolioService *service.PortfolioService
	SystemService    *service.SystemService
	AlertService     *service.AlertService
}

// NewTestServices wires every service against a fresh in-memory database.
//
// Example usage:
//
//	svc := testutil.NewTestServices(t)
//	svc.Provider.WithPrice("RY.TO", 85)
//	testutil.SeedPositions(t, svc.Positions, testutil.NewPosition().Build())
func NewTestServices(t *testing.T) *TestServices {
	t.Helper()

	db := SetupTestDB(t)
	codec, err := repository.NewCodec("")
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}

	s := &TestServices{
		DB:        db,
		Positions: repository.NewPositionRepository(repository.NewSQLiteStore(db), codec, "portfolio", 10),
		Alerts:    repository.NewAlertRepository(db),
		Provider:  NewMockQuoteProvider(),
	}
	s.Aggregator = service.NewAggregator(s.Provider, TestMarketSuffix, service.DefaultConcurrency, zerolog.Nop())
	s.PositionService = service.NewPositionService(s.Positions, s.Provider, TestMarketSuffix)
	s.PortfolioService = service.NewPortfolioService(s.Positions, s.Aggregator, s.Provider)
	s.SystemService = service.NewSystemService(db, s.Positions)
	s.AlertService = service.NewAlertService(s.Alerts)
	return s
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("RY")
//	// Returns: "RY1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
