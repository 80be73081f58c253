// Package ledger implements a portfolio ledger: a cash balance plus a set
// of holdings, mutated only through Buy and Sell.
package ledger

import (
	"fmt"
	"math"
	"sync"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/shopspring/decimal"
)

// OversellPolicy decides what Sell does when asked for more units than held.
type OversellPolicy string

const (
	// OversellSellAll removes the holding and credits the full requested
	// quantity.
	OversellSellAll OversellPolicy = "sell_all"
	// OversellReject fails the order with domain.ErrInsufficientHoldings.
	OversellReject OversellPolicy = "reject"
)

// Policy holds the rules a ledger enforces beyond its invariants.
type Policy struct {
	AllowNegativeFunds bool
	Oversell           OversellPolicy
}

// DefaultPolicy allows negative funds and treats oversized sells as
// "sell everything".
func DefaultPolicy() Policy {
	return Policy{
		AllowNegativeFunds: true,
		Oversell:           OversellSellAll,
	}
}

// BuyRequest is the payload of a Buy operation.
type BuyRequest struct {
	SecurityID string
	Quantity   int64
	UnitPrice  decimal.Decimal
}

// SellRequest is the payload of a Sell operation.
type SellRequest struct {
	SecurityID string
	Quantity   int64
	UnitPrice  decimal.Decimal
}

// Snapshot is a point-in-time copy of a ledger's state.
type Snapshot struct {
	// Seq counts the operations applied so far. Each successful Buy or
	// Sell returns a snapshot whose Seq is one more than the previous.
	Seq      uint64
	Funds    decimal.Decimal
	Holdings []domain.Holding // insertion order
}

// Holding returns the holding for securityID and whether it is present.
func (s Snapshot) Holding(securityID string) (domain.Holding, bool) {
	for _, h := range s.Holdings {
		if h.SecurityID == securityID {
			return h, true
		}
	}
	return domain.Holding{}, false
}

// EnrichedHolding is a holding joined with its quote.
type EnrichedHolding struct {
	SecurityID string
	Quantity   int64
	Name       string
	UnitPrice  decimal.Decimal
}

// QuoteSource resolves a security to its current quote.
type QuoteSource interface {
	Lookup(securityID string) (domain.Quote, bool)
}

// QuoteSourceFunc adapts a function to QuoteSource.
type QuoteSourceFunc func(securityID string) (domain.Quote, bool)

// Lookup calls f(securityID).
func (f QuoteSourceFunc) Lookup(securityID string) (domain.Quote, bool) {
	return f(securityID)
}

// Ledger owns a cash balance and the holdings bought with it. All methods
// are safe for concurrent use; each runs as a single critical section, so
// a failed operation never leaves a partial mutation behind.
type Ledger struct {
	mu       sync.Mutex
	policy   Policy
	seq      uint64
	funds    decimal.Decimal
	holdings []*domain.Holding          // insertion order
	index    map[string]*domain.Holding // security_id → holding
}

// New creates a ledger with the given initial funds and no holdings.
func New(initialFunds decimal.Decimal, policy Policy) *Ledger {
	if policy.Oversell == "" {
		policy.Oversell = OversellSellAll
	}
	return &Ledger{
		policy: policy,
		funds:  initialFunds,
		index:  make(map[string]*domain.Holding),
	}
}

// Policy returns the rules this ledger was created with.
func (l *Ledger) Policy() Policy {
	return l.policy
}

// Buy adds req.Quantity units of a security and debits their cost.
func (l *Ledger) Buy(req BuyRequest) (Snapshot, error) {
	if err := validate(req.SecurityID, req.Quantity, req.UnitPrice); err != nil {
		return Snapshot{}, fmt.Errorf("buy %s: %w", req.SecurityID, err)
	}
	cost := req.UnitPrice.Mul(decimal.NewFromInt(req.Quantity))

	l.mu.Lock()
	defer l.mu.Unlock()

	newFunds := l.funds.Sub(cost)
	if !l.policy.AllowNegativeFunds && newFunds.IsNegative() {
		return Snapshot{}, fmt.Errorf("buy %s: cost %s exceeds funds %s: %w",
			req.SecurityID, cost, l.funds, domain.ErrInsufficientFunds)
	}

	h, held := l.index[req.SecurityID]
	if held && h.Quantity > math.MaxInt64-req.Quantity {
		return Snapshot{}, fmt.Errorf("buy %s: quantity %d overflows holding of %d: %w",
			req.SecurityID, req.Quantity, h.Quantity, domain.ErrInvalidQuantity)
	}

	if held {
		h.Quantity += req.Quantity
	} else {
		h = &domain.Holding{SecurityID: req.SecurityID, Quantity: req.Quantity}
		l.holdings = append(l.holdings, h)
		l.index[req.SecurityID] = h
	}
	l.funds = newFunds
	l.seq++

	return l.snapshotLocked(), nil
}

// Sell removes req.Quantity units of a held security and credits the
// proceeds. Selling the whole position, or more than it under
// OversellSellAll, removes the holding.
func (l *Ledger) Sell(req SellRequest) (Snapshot, error) {
	if err := validate(req.SecurityID, req.Quantity, req.UnitPrice); err != nil {
		return Snapshot{}, fmt.Errorf("sell %s: %w", req.SecurityID, err)
	}
	proceeds := req.UnitPrice.Mul(decimal.NewFromInt(req.Quantity))

	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := l.index[req.SecurityID]
	if !ok {
		return Snapshot{}, fmt.Errorf("sell %s: not held: %w", req.SecurityID, domain.ErrUnknownSecurity)
	}
	if req.Quantity > h.Quantity && l.policy.Oversell == OversellReject {
		return Snapshot{}, fmt.Errorf("sell %s: requested %d, held %d: %w",
			req.SecurityID, req.Quantity, h.Quantity, domain.ErrInsufficientHoldings)
	}

	if h.Quantity > req.Quantity {
		h.Quantity -= req.Quantity
	} else {
		l.removeLocked(req.SecurityID)
	}
	l.funds = l.funds.Add(proceeds)
	l.seq++

	return l.snapshotLocked(), nil
}

// EnrichedHoldings joins every holding with its quote, in insertion order.
// It fails with domain.ErrUnknownSecurity if any held security is unquoted.
func (l *Ledger) EnrichedHoldings(quotes QuoteSource) ([]EnrichedHolding, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]EnrichedHolding, 0, len(l.holdings))
	for _, h := range l.holdings {
		q, ok := quotes.Lookup(h.SecurityID)
		if !ok {
			return nil, fmt.Errorf("enrich %s: no quote: %w", h.SecurityID, domain.ErrUnknownSecurity)
		}
		out = append(out, EnrichedHolding{
			SecurityID: h.SecurityID,
			Quantity:   h.Quantity,
			Name:       q.Name,
			UnitPrice:  q.Price,
		})
	}
	return out, nil
}

// AvailableFunds returns the current cash balance. It may be negative when
// the policy allows it.
func (l *Ledger) AvailableFunds() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.funds
}

// Snapshot returns a copy of the current funds and holdings.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() Snapshot {
	holdings := make([]domain.Holding, len(l.holdings))
	for i, h := range l.holdings {
		holdings[i] = *h
	}
	return Snapshot{Seq: l.seq, Funds: l.funds, Holdings: holdings}
}

func (l *Ledger) removeLocked(securityID string) {
	delete(l.index, securityID)
	for i, h := range l.holdings {
		if h.SecurityID == securityID {
			l.holdings = append(l.holdings[:i], l.holdings[i+1:]...)
			return
		}
	}
}

func validate(securityID string, quantity int64, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if securityID == "" {
		return domain.ErrUnknownSecurity
	}
	if unitPrice.IsNegative() {
		return domain.ErrInvalidPrice
	}
	return nil
}
