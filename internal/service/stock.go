package service

import (
	"strings"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/efreitasn/stocktrader/internal/store"
	"github.com/shopspring/decimal"
)

// UpsertQuoteRequest represents the input for publishing a quote.
type UpsertQuoteRequest struct {
	SecurityID string
	Name       string
	Price      decimal.Decimal
}

// StockService maintains the quote catalog.
type StockService struct {
	quotes *store.QuoteStore
}

// NewStockService creates a new StockService.
func NewStockService(quotes *store.QuoteStore) *StockService {
	return &StockService{quotes: quotes}
}

// Upsert validates and publishes a quote. It reports whether the security
// was newly added to the catalog.
func (s *StockService) Upsert(req UpsertQuoteRequest) (domain.Quote, bool, error) {
	if !securityIDRegex.MatchString(req.SecurityID) {
		return domain.Quote{}, false, &domain.ValidationError{
			Message: "security_id must match ^[a-zA-Z0-9._-]{1,32}$",
		}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 128 {
		return domain.Quote{}, false, &domain.ValidationError{
			Message: "name must be between 1 and 128 characters",
		}
	}
	if req.Price.IsNegative() {
		return domain.Quote{}, false, &domain.ValidationError{
			Message: "price must be >= 0",
		}
	}
	if !domain.HasAtMostDecimals(req.Price, domain.MaxPriceDecimals) {
		return domain.Quote{}, false, &domain.ValidationError{
			Message: "price must have at most 2 decimal places",
		}
	}

	q := domain.Quote{
		SecurityID: req.SecurityID,
		Name:       name,
		Price:      req.Price,
	}
	replaced := s.quotes.Upsert(q)
	return q, !replaced, nil
}

// Get returns the quote for a security.
func (s *StockService) Get(securityID string) (domain.Quote, error) {
	return s.quotes.Get(securityID)
}

// List returns all quotes ordered by security_id.
func (s *StockService) List() []domain.Quote {
	return s.quotes.List()
}
