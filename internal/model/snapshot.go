package model

// PositionSnapshot is a freshly computed valuation of one position.
// When no quote could be fetched CurrentPrice equals PurchasePrice,
// ChangePercent is 0 and QuoteAvailable is false.
type PositionSnapshot struct {
	PositionID       int      `json:"id"`
	Symbol           string   `json:"symbol"`
	Shares           int      `json:"shares"`
	PurchasePrice    float64  `json:"purchasePrice"`
	CurrentPrice     float64  `json:"currentPrice"`
	ChangePercent    float64  `json:"changePercent"`
	ThresholdPercent float64  `json:"thresholdPercent"`
	DividendYield    *float64 `json:"dividendYield,omitempty"` // Percent, nil when the provider had none
	QuoteAvailable   bool     `json:"quoteAvailable"`
}

// Value is the current market value of the position.
func (s PositionSnapshot) Value() float64 {
	return float64(s.Shares) * s.CurrentPrice
}

// PurchaseValue is the cost basis of the position.
func (s PositionSnapshot) PurchaseValue() float64 {
	return float64(s.Shares) * s.PurchasePrice
}

// ProfitLoss is shares * (currentPrice - purchasePrice).
func (s PositionSnapshot) ProfitLoss() float64 {
	return s.Value() - s.PurchaseValue()
}

// ChangePercent returns the percentage difference between current and purchase
// price. A zero purchase price yields 0 instead of dividing by zero.
func ChangePercent(purchasePrice, currentPrice float64) float64 {
	if purchasePrice == 0 {
		return 0
	}
	return (currentPrice - purchasePrice) / purchasePrice * 100
}

// Performer identifies the best or worst position by absolute profit/loss.
type Performer struct {
	PositionID int     `json:"id"`
	Symbol     string  `json:"symbol"`
	ProfitLoss float64 `json:"profitLoss"`
}

// PortfolioTotals holds portfolio-wide statistics reduced from a set of snapshots.
// All ratios are 0 when their denominator is 0.
type PortfolioTotals struct {
	TotalValue           float64    `json:"totalValue"`
	TotalPurchaseValue   float64    `json:"totalPurchaseValue"`
	TotalProfitLoss      float64    `json:"totalProfitLoss"`
	PercentProfitLoss    float64    `json:"percentProfitLoss"`
	TotalShares          int        `json:"totalShares"`
	AveragePurchasePrice float64    `json:"averagePurchasePrice"`
	AverageCurrentPrice  float64    `json:"averageCurrentPrice"`
	AnnualDividendIncome float64    `json:"annualDividendIncome"` // Only positions with a known yield contribute
	DividendCoverage     int        `json:"dividendCoverage"`     // Number of positions with a known yield
	BestPerformer        *Performer `json:"bestPerformer"`
	WorstPerformer       *Performer `json:"worstPerformer"`
}

// PortfolioSummary pairs the per-position snapshots with their totals.
type PortfolioSummary struct {
	Positions []PositionSnapshot `json:"positions"`
	Totals    PortfolioTotals    `json:"totals"`
}
