package domain

import "github.com/shopspring/decimal"

// Holding records how many units of one security a portfolio owns.
// A holding with zero quantity is never kept.
type Holding struct {
	SecurityID string
	Quantity   int64
}

// Quote is the pricing and display data for a security. Quotes live in
// the catalog; ledgers only reference them by SecurityID.
type Quote struct {
	SecurityID string
	Name       string
	Price      decimal.Decimal
}
