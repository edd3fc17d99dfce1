package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
	"github.com/ndewijer/portfolio-monitor/internal/yahoo"
)

// MockQuoteProvider is a goroutine-safe yahoo.Provider for tests.
// Symbols without a configured price fail with ErrQuoteUnavailable.
type MockQuoteProvider struct {
	mu          sync.Mutex
	prices      map[string]float64
	yields      map[string]float64
	names       map[string]string
	errors      map[string]error
	delay       time.Duration
	calls       map[string]int
	inFlight    int
	maxInFlight int
}

// NewMockQuoteProvider creates an empty mock provider.
func NewMockQuoteProvider() *MockQuoteProvider {
	return &MockQuoteProvider{
		prices: make(map[string]float64),
		yields: make(map[string]float64),
		names:  make(map[string]string),
		errors: make(map[string]error),
		calls:  make(map[string]int),
	}
}

// WithPrice configures the price returned for a normalized symbol.
func (m *MockQuoteProvider) WithPrice(symbol string, price float64) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
	return m
}

// WithDividendYield configures the dividend yield (percent) for a symbol.
// Symbols without a configured yield return a quote with a nil yield.
func (m *MockQuoteProvider) WithDividendYield(symbol string, yield float64) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yields[symbol] = yield
	return m
}

// WithCompanyName configures the company name for a symbol.
func (m *MockQuoteProvider) WithCompanyName(symbol, name string) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[symbol] = name
	return m
}

// WithError makes every call for symbol fail with err.
func (m *MockQuoteProvider) WithError(symbol string, err error) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[symbol] = err
	return m
}

// WithDelay makes every call block for d (or until the context ends).
func (m *MockQuoteProvider) WithDelay(d time.Duration) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// GetQuote implements yahoo.Provider.
func (m *MockQuoteProvider) GetQuote(ctx context.Context, symbol string) (yahoo.Quote, error) {
	m.enter(symbol)
	defer m.leave()

	if err := m.wait(ctx); err != nil {
		return yahoo.Quote{}, fmt.Errorf("%w: %s: %w", apperrors.ErrQuoteUnavailable, symbol, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.errors[symbol]; ok {
		return yahoo.Quote{}, fmt.Errorf("%w: %s: %w", apperrors.ErrQuoteUnavailable, symbol, err)
	}
	price, ok := m.prices[symbol]
	if !ok {
		return yahoo.Quote{}, fmt.Errorf("%w: %s: no mock price", apperrors.ErrQuoteUnavailable, symbol)
	}

	quote := yahoo.Quote{
		Symbol:      symbol,
		Price:       price,
		Currency:    "CAD",
		CompanyName: m.names[symbol],
	}
	if y, ok := m.yields[symbol]; ok {
		quote.DividendYield = &y
	}
	return quote, nil
}

// GetCompanyName implements yahoo.Provider.
func (m *MockQuoteProvider) GetCompanyName(ctx context.Context, symbol string) (string, error) {
	m.enter(symbol)
	defer m.leave()

	if err := m.wait(ctx); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.errors[symbol]; ok {
		return "", err
	}
	name, ok := m.names[symbol]
	if !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return name, nil
}

// Calls returns how often symbol was requested.
func (m *MockQuoteProvider) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// TotalCalls returns the number of provider calls across all symbols.
func (m *MockQuoteProvider) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// MaxInFlight returns the highest number of concurrent calls observed.
func (m *MockQuoteProvider) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

func (m *MockQuoteProvider) enter(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[symbol]++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
}

func (m *MockQuoteProvider) leave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
}

func (m *MockQuoteProvider) wait(ctx context.Context) error {
	m.mu.Lock()
	delay := m.delay
	m.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
