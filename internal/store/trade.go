package store

import (
	"sync"

	"github.com/efreitasn/stocktrader/internal/domain"
)

// TradeStore is a thread-safe in-memory trade journal, keyed by
// portfolio_id. Each portfolio's trades are kept ordered by Seq, the
// order in which its ledger applied them.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[string][]*domain.Trade // portfolio_id → trades (ascending Seq)
}

// NewTradeStore creates an empty TradeStore.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades: make(map[string][]*domain.Trade),
	}
}

// Append adds a trade to its portfolio's journal. A trade that arrives
// after one with a higher Seq is placed before it; equal Seqs keep
// arrival order.
func (s *TradeStore) Append(t *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.trades[t.PortfolioID], t)
	i := len(list) - 1
	for ; i > 0 && list[i-1].Seq > t.Seq; i-- {
		list[i] = list[i-1]
	}
	list[i] = t
	s.trades[t.PortfolioID] = list
}

// ListByPortfolio returns a portfolio's trades newest first, by Seq. Pagination is 1-based. Returns the trades for the
// requested page and the total count before pagination.
func (s *TradeStore) ListByPortfolio(portfolioID string, page, limit int) ([]*domain.Trade, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.trades[portfolioID]
	total := len(all)

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Trade{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	// Walk backwards so index 0 is the newest trade.
	result := make([]*domain.Trade, 0, end-start)
	for i := total - 1 - start; i >= total-end; i-- {
		result = append(result, all[i])
	}
	return result, total
}
