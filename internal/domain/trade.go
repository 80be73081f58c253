package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side indicates whether a trade bought or sold units.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is a journal entry for one applied buy or sell.
type Trade struct {
	TradeID     string
	PortfolioID string
	Seq         uint64 // position in the portfolio's ledger history
	Side        Side
	SecurityID  string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal // Quantity × UnitPrice
	ExecutedAt  time.Time
}
