package store

import (
	"sync"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/efreitasn/stocktrader/internal/ledger"
)

// PortfolioStore is a thread-safe in-memory store for portfolio ledgers,
// keyed by portfolio_id.
type PortfolioStore struct {
	mu      sync.RWMutex
	ledgers map[string]*ledger.Ledger
}

// NewPortfolioStore creates an empty PortfolioStore.
func NewPortfolioStore() *PortfolioStore {
	return &PortfolioStore{
		ledgers: make(map[string]*ledger.Ledger),
	}
}

// Create adds a ledger under the given ID. It returns
// domain.ErrPortfolioAlreadyExists if the ID is taken.
func (s *PortfolioStore) Create(id string, l *ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ledgers[id]; exists {
		return domain.ErrPortfolioAlreadyExists
	}
	s.ledgers[id] = l
	return nil
}

// Get retrieves a ledger by portfolio ID. It returns
// domain.ErrPortfolioNotFound if the portfolio does not exist.
func (s *PortfolioStore) Get(id string) (*ledger.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.ledgers[id]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	return l, nil
}

// Exists returns true if a portfolio with the given ID exists.
func (s *PortfolioStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ledgers[id]
	return ok
}
