package yahoo

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API. Only the fields needed for a quote are mapped.
//
// The structure includes:
//   - Chart.Result[].Meta: Symbol metadata (name, currency, exchange, last price)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Close prices (entries may be null)
//   - Chart.Result[].Events: Dividend events when requested with events=div
//   - Chart.Error: Error object returned by Yahoo, e.g. for unknown symbols
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart object.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns instead of a result.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the data for one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
	Events     *Events             `json:"events,omitempty"`
}

// Meta holds symbol metadata.
type Meta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	ExchangeName       string   `json:"exchangeName"`
	FullExchangeName   string   `json:"fullExchangeName"`
	LongName           string   `json:"longName"`
	ShortName          string   `json:"shortName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}

// IndicatorsContainer wraps the quote arrays.
type IndicatorsContainer struct {
	Quote []QuoteSeries `json:"quote"`
}

// QuoteSeries holds the OHLC arrays. Yahoo emits null for missing points.
type QuoteSeries struct {
	Close []*float64 `json:"close"`
}

// Events holds corporate events.
type Events struct {
	Dividends map[string]DividendEvent `json:"dividends"`
}

// DividendEvent is a single dividend payment.
type DividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// Quote is the typed result of a quote lookup.
// DividendYield is nil when it could not be determined.
type Quote struct {
	Symbol        string
	Price         float64
	Currency      string
	CompanyName   string
	DividendYield *float64 // Trailing twelve month yield in percent
}
