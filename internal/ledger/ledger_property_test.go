package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

var testSecurities = []string{"AAPL", "GOOG", "BMW", "TWTR", "MSFT"}

func genPrice() *rapid.Generator[decimal.Decimal] {
	return rapid.Custom(func(t *rapid.T) decimal.Decimal {
		cents := rapid.Int64Range(0, 1_000_000).Draw(t, "cents")
		return decimal.New(cents, -2)
	})
}

func TestProperty_BuysAccumulatePerSecurity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := New(decimal.NewFromInt(10000), DefaultPolicy())

		n := rapid.IntRange(1, 30).Draw(t, "n")
		want := make(map[string]int64)
		for i := 0; i < n; i++ {
			id := rapid.SampledFrom(testSecurities).Draw(t, fmt.Sprintf("id-%d", i))
			qty := rapid.Int64Range(1, 1000).Draw(t, fmt.Sprintf("qty-%d", i))
			if _, err := l.Buy(BuyRequest{SecurityID: id, Quantity: qty, UnitPrice: genPrice().Draw(t, fmt.Sprintf("price-%d", i))}); err != nil {
				t.Fatalf("buy: %v", err)
			}
			want[id] += qty
		}

		got, err := l.EnrichedHoldings(QuoteSourceFunc(func(id string) (domain.Quote, bool) {
			return domain.Quote{SecurityID: id, Name: id, Price: decimal.NewFromInt(1)}, true
		}))
		if err != nil {
			t.Fatalf("enrich: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("got %d holdings, want %d distinct securities", len(got), len(want))
		}
		for _, h := range got {
			if h.Quantity != want[h.SecurityID] {
				t.Fatalf("holding %s quantity = %d, want %d", h.SecurityID, h.Quantity, want[h.SecurityID])
			}
		}
	})
}

func TestProperty_BuyThenSellSameQuantityRemoves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := New(decimal.NewFromInt(10000), DefaultPolicy())
		id := rapid.SampledFrom(testSecurities).Draw(t, "id")
		qty := rapid.Int64Range(1, 1000).Draw(t, "qty")
		price := genPrice().Draw(t, "price")

		if _, err := l.Buy(BuyRequest{SecurityID: id, Quantity: qty, UnitPrice: price}); err != nil {
			t.Fatalf("buy: %v", err)
		}
		s, err := l.Sell(SellRequest{SecurityID: id, Quantity: qty, UnitPrice: price})
		if err != nil {
			t.Fatalf("sell: %v", err)
		}
		if _, ok := s.Holding(id); ok {
			t.Fatalf("holding %s still present after selling all", id)
		}
		if !s.Funds.Equal(decimal.NewFromInt(10000)) {
			t.Fatalf("funds = %s, want 10000", s.Funds)
		}
	})
}

// TestProperty_LedgerInvariants replays random buy/sell sequences under a
// random policy and checks the holdings and funds invariants after each step.
func TestProperty_LedgerInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		policy := Policy{
			AllowNegativeFunds: rapid.Bool().Draw(t, "allowNegative"),
			Oversell:           rapid.SampledFrom([]OversellPolicy{OversellSellAll, OversellReject}).Draw(t, "oversell"),
		}
		initial := decimal.NewFromInt(rapid.Int64Range(0, 100_000).Draw(t, "initial"))
		l := New(initial, policy)

		model := make(map[string]int64)
		funds := initial

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(testSecurities).Draw(t, fmt.Sprintf("id-%d", i))
			qty := rapid.Int64Range(-2, 500).Draw(t, fmt.Sprintf("qty-%d", i))
			price := genPrice().Draw(t, fmt.Sprintf("price-%d", i))
			amount := price.Mul(decimal.NewFromInt(qty))

			if rapid.Bool().Draw(t, fmt.Sprintf("buy-%d", i)) {
				_, err := l.Buy(BuyRequest{SecurityID: id, Quantity: qty, UnitPrice: price})
				switch {
				case qty <= 0:
					if !errors.Is(err, domain.ErrInvalidQuantity) {
						t.Fatalf("buy qty %d: expected ErrInvalidQuantity, got %v", qty, err)
					}
				case !policy.AllowNegativeFunds && funds.Sub(amount).IsNegative():
					if !errors.Is(err, domain.ErrInsufficientFunds) {
						t.Fatalf("expected ErrInsufficientFunds, got %v", err)
					}
				default:
					if err != nil {
						t.Fatalf("buy: %v", err)
					}
					model[id] += qty
					funds = funds.Sub(amount)
				}
			} else {
				_, err := l.Sell(SellRequest{SecurityID: id, Quantity: qty, UnitPrice: price})
				held, isHeld := model[id]
				switch {
				case qty <= 0:
					if !errors.Is(err, domain.ErrInvalidQuantity) {
						t.Fatalf("sell qty %d: expected ErrInvalidQuantity, got %v", qty, err)
					}
				case !isHeld:
					if !errors.Is(err, domain.ErrUnknownSecurity) {
						t.Fatalf("expected ErrUnknownSecurity, got %v", err)
					}
				case qty > held && policy.Oversell == OversellReject:
					if !errors.Is(err, domain.ErrInsufficientHoldings) {
						t.Fatalf("expected ErrInsufficientHoldings, got %v", err)
					}
				default:
					if err != nil {
						t.Fatalf("sell: %v", err)
					}
					if held > qty {
						model[id] = held - qty
					} else {
						delete(model, id)
					}
					funds = funds.Add(amount)
				}
			}

			s := l.Snapshot()
			if !s.Funds.Equal(funds) {
				t.Fatalf("step %d: funds = %s, want %s", i, s.Funds, funds)
			}
			if !policy.AllowNegativeFunds && s.Funds.IsNegative() {
				t.Fatalf("step %d: funds went negative: %s", i, s.Funds)
			}
			if len(s.Holdings) != len(model) {
				t.Fatalf("step %d: %d holdings, want %d", i, len(s.Holdings), len(model))
			}
			seen := make(map[string]bool)
			for _, h := range s.Holdings {
				if seen[h.SecurityID] {
					t.Fatalf("step %d: duplicate holding %s", i, h.SecurityID)
				}
				seen[h.SecurityID] = true
				if h.Quantity <= 0 {
					t.Fatalf("step %d: holding %s has quantity %d", i, h.SecurityID, h.Quantity)
				}
				if h.Quantity != model[h.SecurityID] {
					t.Fatalf("step %d: holding %s = %d, want %d", i, h.SecurityID, h.Quantity, model[h.SecurityID])
				}
			}
		}
	})
}
