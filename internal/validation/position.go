package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/ndewijer/portfolio-monitor/internal/api/request"
	"github.com/ndewijer/portfolio-monitor/internal/model"
)

// Threshold bounds in percent. A threshold below -100 could never fire.
const (
	MinThresholdPercent = -100.0
	MaxThresholdPercent = 100.0
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]*$`)

// NormalizeSymbolInput trims and upper-cases a user-supplied ticker.
func NormalizeSymbolInput(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks a raw ticker before it is sent to the quote provider.
func ValidateSymbol(symbol string) error {
	errors := make(map[string]string)
	validateSymbol(errors, NormalizeSymbolInput(symbol))
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateCreatePosition validates an add request and returns the normalized input.
func ValidateCreatePosition(req request.CreatePositionRequest) (model.PositionInput, error) {
	errors := make(map[string]string)

	symbol := NormalizeSymbolInput(req.Symbol)
	validateSymbol(errors, symbol)

	if req.Shares == nil {
		errors["shares"] = "shares is required"
	} else {
		validateShares(errors, *req.Shares)
	}

	if req.PurchasePrice == nil {
		errors["purchasePrice"] = "purchase price is required"
	} else {
		validatePurchasePrice(errors, *req.PurchasePrice)
	}

	if req.ThresholdPercent == nil {
		errors["threshold"] = "threshold is required"
	} else {
		validateThreshold(errors, *req.ThresholdPercent)
	}

	if len(errors) > 0 {
		return model.PositionInput{}, &Error{Fields: errors}
	}
	return model.PositionInput{
		Symbol:           symbol,
		Shares:           *req.Shares,
		PurchasePrice:    *req.PurchasePrice,
		ThresholdPercent: *req.ThresholdPercent,
	}, nil
}

// ValidateUpdatePosition validates an update request against the current
// position and returns the merged input. Omitted fields keep their value.
func ValidateUpdatePosition(req request.UpdatePositionRequest, current model.Position) (model.PositionInput, error) {
	errors := make(map[string]string)

	input := model.PositionInput{
		Symbol:           current.Symbol,
		Shares:           current.Shares,
		PurchasePrice:    current.PurchasePrice,
		ThresholdPercent: current.ThresholdPercent,
	}

	// Only validate provided fields
	if req.Symbol != nil {
		input.Symbol = NormalizeSymbolInput(*req.Symbol)
		validateSymbol(errors, input.Symbol)
	}
	if req.Shares != nil {
		input.Shares = *req.Shares
		validateShares(errors, input.Shares)
	}
	if req.PurchasePrice != nil {
		input.PurchasePrice = *req.PurchasePrice
		validatePurchasePrice(errors, input.PurchasePrice)
	}
	if req.ThresholdPercent != nil {
		input.ThresholdPercent = *req.ThresholdPercent
		validateThreshold(errors, input.ThresholdPercent)
	}

	if len(errors) > 0 {
		return model.PositionInput{}, &Error{Fields: errors}
	}
	return input, nil
}

func validateSymbol(errors map[string]string, symbol string) {
	switch {
	case symbol == "":
		errors["symbol"] = "symbol is required"
	case len(symbol) > 10:
		errors["symbol"] = "symbol must be 10 characters or less"
	case !symbolPattern.MatchString(symbol):
		errors["symbol"] = "symbol may only contain letters, digits, '.' and '-'"
	}
}

func validateShares(errors map[string]string, shares int) {
	if shares <= 0 {
		errors["shares"] = "shares must be a positive integer"
	}
}

func validatePurchasePrice(errors map[string]string, price float64) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		errors["purchasePrice"] = "purchase price must be a positive number"
	}
}

func validateThreshold(errors map[string]string, threshold float64) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		errors["threshold"] = "threshold must be a number"
	} else if threshold < MinThresholdPercent || threshold > MaxThresholdPercent {
		errors["threshold"] = "threshold must be between -100 and 100 percent"
	}
}
