package store

import (
	"sync"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/google/btree"
)

func quoteLess(a, b domain.Quote) bool {
	return a.SecurityID < b.SecurityID
}

// QuoteStore is the quote catalog: a thread-safe B-tree of quotes ordered
// by security_id.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes *btree.BTreeG[domain.Quote]
}

// NewQuoteStore creates an empty QuoteStore.
func NewQuoteStore() *QuoteStore {
	const degree = 16
	return &QuoteStore{
		quotes: btree.NewG[domain.Quote](degree, quoteLess),
	}
}

// Upsert inserts or replaces the quote for q.SecurityID. It reports
// whether a previous quote was replaced.
func (s *QuoteStore) Upsert(q domain.Quote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, replaced := s.quotes.ReplaceOrInsert(q)
	return replaced
}

// Get retrieves a quote by security ID. It returns
// domain.ErrUnknownSecurity if the security is not quoted.
func (s *QuoteStore) Get(securityID string) (domain.Quote, error) {
	q, ok := s.Lookup(securityID)
	if !ok {
		return domain.Quote{}, domain.ErrUnknownSecurity
	}
	return q, nil
}

// Lookup returns the quote for securityID and whether it exists.
// It satisfies ledger.QuoteSource.
func (s *QuoteStore) Lookup(securityID string) (domain.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.quotes.Get(domain.Quote{SecurityID: securityID})
}

// List returns all quotes in ascending security_id order.
func (s *QuoteStore) List() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Quote, 0, s.quotes.Len())
	s.quotes.Ascend(func(q domain.Quote) bool {
		result = append(result, q)
		return true
	})
	return result
}

// Len returns the number of quoted securities.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotes.Len()
}
