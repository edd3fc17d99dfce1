package yahoo

import "strings"

// NormalizeSymbol turns a raw ticker into the exchange-qualified symbol sent to
// the provider: trimmed, upper-cased, with the market suffix appended once.
// An empty suffix leaves the ticker unqualified.
func NormalizeSymbol(raw, suffix string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	suffix = strings.ToUpper(strings.TrimSpace(suffix))
	if suffix == "" || strings.HasSuffix(symbol, suffix) {
		return symbol
	}
	return symbol + suffix
}
