package model

import "time"

// Alert is raised by the monitor when a position's change percent is at or
// below its threshold.
type Alert struct {
	ID               string    `json:"id"`
	PositionID       int       `json:"positionId"`
	Symbol           string    `json:"symbol"`
	CurrentPrice     float64   `json:"currentPrice"`
	ChangePercent    float64   `json:"changePercent"`
	ThresholdPercent float64   `json:"thresholdPercent"`
	RaisedAt         time.Time `json:"raisedAt"`
	Subject          string    `json:"subject"`
	Body             string    `json:"body"`
}

// AlertRecord is an alert as stored in the alert log.
type AlertRecord struct {
	ID               string    `json:"id"`
	PositionID       int       `json:"positionId"`
	Symbol           string    `json:"symbol"`
	CurrentPrice     float64   `json:"currentPrice"`
	ChangePercent    float64   `json:"changePercent"`
	ThresholdPercent float64   `json:"thresholdPercent"`
	Subject          string    `json:"subject"`
	Delivered        bool      `json:"delivered"`
	RaisedAt         time.Time `json:"raisedAt"`
}

// SymbolQuote is the result of a symbol search: the resolved company name and
// the latest price.
type SymbolQuote struct {
	Symbol       string  `json:"symbol"`
	CompanyName  string  `json:"companyName"`
	CurrentPrice float64 `json:"currentPrice"`
	Currency     string  `json:"currency,omitempty"`
}
