package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ndewijer/portfolio-monitor/internal/apperrors"
)

// DefaultBaseURL is the Yahoo Finance chart API root.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Provider is the quote source consumed by the aggregator and the symbol
// search. Symbols passed in are already normalized (see NormalizeSymbol).
type Provider interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	GetCompanyName(ctx context.Context, symbol string) (string, error)
}

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
// It wraps an HTTP client and is safe for concurrent use.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	now        func() time.Time
}

// NewFinanceClient creates a new Yahoo Finance client.
// A zero timeout means requests only end when their context does.
//
// Returns:
//   - *FinanceClient: A new client instance ready for use
func NewFinanceClient(timeout time.Duration) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    DefaultBaseURL,
		now:        time.Now,
	}
}

// WithBaseURL points the client at a different API root, used by tests.
func (c *FinanceClient) WithBaseURL(baseURL string) *FinanceClient {
	c.baseURL = baseURL
	return c
}

// GetQuote fetches the latest price, company name and trailing dividend yield
// for a symbol with a single chart request.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - symbol: Normalized ticker symbol (e.g., "RY.TO")
//
// Returns:
//   - Quote: Typed quote; DividendYield is set whenever a price was found
//   - error: Wraps apperrors.ErrQuoteUnavailable on any failure
func (c *FinanceClient) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	raw, err := c.QueryChart(ctx, symbol)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %s: %w", apperrors.ErrQuoteUnavailable, symbol, err)
	}

	quote, err := ParseQuote(raw, c.now())
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %s: %w", apperrors.ErrQuoteUnavailable, symbol, err)
	}
	return quote, nil
}

// GetCompanyName resolves the display name for a symbol. It is used to
// validate symbols before they are added to the portfolio.
//
// Returns:
//   - string: Short name, or long name when Yahoo has no short name
//   - error: apperrors.ErrSymbolNotFound when Yahoo does not know the symbol
//     or has no name for it; other errors on transport failures
func (c *FinanceClient) GetCompanyName(ctx context.Context, symbol string) (string, error) {
	raw, err := c.QueryChart(ctx, symbol)
	if err != nil {
		return "", err
	}

	meta := raw.Chart.Result[0].Meta
	switch {
	case meta.ShortName != "":
		return meta.ShortName, nil
	case meta.LongName != "":
		return meta.LongName, nil
	default:
		return "", fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
}

// QueryChart fetches one year of daily data including dividend events.
//
// Returns:
//   - Response: Raw API response with at least one result
//   - error: apperrors.ErrSymbolNotFound for unknown symbols, or the
//     transport/decoding error
func (c *FinanceClient) QueryChart(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1y&events=div",
		c.baseURL, url.PathEscape(symbol))

	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}

	return result, nil
}

// ParseQuote converts a raw chart response into a typed Quote.
//
// The price is meta.regularMarketPrice, falling back to the last non-null
// close. The dividend yield sums dividend events in the twelve months before
// now and divides by the price; a response without dividend events yields 0.
func ParseQuote(raw Response, now time.Time) (Quote, error) {
	if len(raw.Chart.Result) == 0 {
		return Quote{}, errors.New("no results returned")
	}
	result := raw.Chart.Result[0]

	price := 0.0
	if result.Meta.RegularMarketPrice != nil {
		price = *result.Meta.RegularMarketPrice
	}
	if price <= 0 && len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] != nil && *closes[i] > 0 {
				price = *closes[i]
				break
			}
		}
	}
	if price <= 0 {
		return Quote{}, errors.New("no price data returned")
	}

	name := result.Meta.ShortName
	if name == "" {
		name = result.Meta.LongName
	}

	yield := trailingDividendYield(result.Events, price, now)

	return Quote{
		Symbol:        result.Meta.Symbol,
		Price:         price,
		Currency:      result.Meta.Currency,
		CompanyName:   name,
		DividendYield: &yield,
	}, nil
}

func trailingDividendYield(events *Events, price float64, now time.Time) float64 {
	if events == nil || price <= 0 {
		return 0
	}
	cutoff := now.AddDate(-1, 0, 0).Unix()

	total := 0.0
	for key, div := range events.Dividends {
		date := div.Date
		if date == 0 {
			date, _ = strconv.ParseInt(key, 10, 64)
		}
		if date >= cutoff && date <= now.Unix() {
			total += div.Amount
		}
	}
	return total / price * 100
}

// queryYahoo executes a request against the Yahoo Finance API, decodes the
// JSON body and maps Yahoo's error object to Go errors.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
		}
		return Response{}, fmt.Errorf("failed to decode yahoo response: %w", err)
	}

	if response.Chart.Error != nil {
		if response.Chart.Error.Code == "Not Found" || resp.StatusCode == http.StatusNotFound {
			return response, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, response.Chart.Error.Description)
		}
		return response, fmt.Errorf("yahoo error: %s", response.Chart.Error.Description)
	}

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	return response, nil
}
