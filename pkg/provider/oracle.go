// Package provider defines the contracts for external collaborators the
// accounting core depends on: the price oracle and outbound notification.
package provider

import "github.com/shopspring/decimal"

// Quote is the current price of one instrument together with its movement
// since the base price, in percent.
type Quote struct {
	Symbol        string
	Name          string
	Price         decimal.Decimal
	ChangePercent decimal.Decimal
}

// PriceOracle produces a fresh quote for every tradeable instrument on
// demand. It is stateless and may return different values on each call;
// callers must obtain exactly one snapshot per operation and reuse it for
// both pricing and price-history recording.
type PriceOracle interface {
	Quotes() map[string]Quote
}
