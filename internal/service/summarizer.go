package service

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-monitor/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summarize reduces snapshots into portfolio totals.
//
// The input is not modified. Snapshots are ranked in id order, so when two
// positions have the same profit/loss the one with the lower id wins.
// Ratios whose denominator is zero are reported as 0, and positions without a
// dividend yield are left out of the dividend income instead of counting as 0.
//
// Parameters:
//   - snapshots: One snapshot per position, in any order
//
// Returns:
//   - model.PortfolioTotals: Totals; all zero with nil performers for an empty input
func Summarize(snapshots []model.PositionSnapshot) model.PortfolioTotals {
	sorted := slices.Clone(snapshots)
	SortSnapshots(sorted)

	var (
		totalValue    = decimal.Zero
		totalPurchase = decimal.Zero
		dividends     = decimal.Zero
		totalShares   int64
		coverage      int
		best, worst   *model.Performer
		bestPL        decimal.Decimal
		worstPL       decimal.Decimal
	)

	for _, s := range sorted {
		shares := decimal.NewFromInt(int64(s.Shares))
		value := shares.Mul(decimal.NewFromFloat(s.CurrentPrice))
		purchase := shares.Mul(decimal.NewFromFloat(s.PurchasePrice))
		pl := value.Sub(purchase)

		totalValue = totalValue.Add(value)
		totalPurchase = totalPurchase.Add(purchase)
		totalShares += int64(s.Shares)

		if s.DividendYield != nil {
			dividends = dividends.Add(value.Mul(decimal.NewFromFloat(*s.DividendYield)).Div(hundred))
			coverage++
		}

		if best == nil || pl.GreaterThan(bestPL) {
			best = performer(s, pl)
			bestPL = pl
		}
		if worst == nil || pl.LessThan(worstPL) {
			worst = performer(s, pl)
			worstPL = pl
		}
	}

	totalPL := totalValue.Sub(totalPurchase)
	shares := decimal.NewFromInt(totalShares)

	return model.PortfolioTotals{
		TotalValue:           totalValue.InexactFloat64(),
		TotalPurchaseValue:   totalPurchase.InexactFloat64(),
		TotalProfitLoss:      totalPL.InexactFloat64(),
		PercentProfitLoss:    safeDiv(totalPL.Mul(hundred), totalPurchase),
		TotalShares:          int(totalShares),
		AveragePurchasePrice: safeDiv(totalPurchase, shares),
		AverageCurrentPrice:  safeDiv(totalValue, shares),
		AnnualDividendIncome: dividends.InexactFloat64(),
		DividendCoverage:     coverage,
		BestPerformer:        best,
		WorstPerformer:       worst,
	}
}

func performer(s model.PositionSnapshot, pl decimal.Decimal) *model.Performer {
	return &model.Performer{
		PositionID: s.PositionID,
		Symbol:     s.Symbol,
		ProfitLoss: pl.InexactFloat64(),
	}
}

// safeDiv returns num/den, or 0 when den is zero.
func safeDiv(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return num.Div(den).InexactFloat64()
}
