package service

import (
	"fmt"
	"regexp"
	"time"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/efreitasn/stocktrader/internal/ledger"
	"github.com/efreitasn/stocktrader/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	portfolioIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	securityIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,32}$`)
)

// OpenPortfolioRequest represents the input for opening a portfolio.
type OpenPortfolioRequest struct {
	PortfolioID  string           // generated when empty
	InitialFunds *decimal.Decimal // configured default when nil
}

// TradeRequest represents the input for a buy or sell.
type TradeRequest struct {
	SecurityID string
	Quantity   int64
	UnitPrice  *decimal.Decimal // current quote price when nil
}

// TradeResult is the outcome of an applied buy or sell.
type TradeResult struct {
	Trade    *domain.Trade
	Funds    decimal.Decimal
	Holdings []domain.Holding
}

// FundsView represents a portfolio's available funds.
type FundsView struct {
	PortfolioID  string
	Funds        decimal.Decimal
	FundsDisplay string
}

// HoldingView is a holding joined with its quote.
type HoldingView struct {
	SecurityID  string
	Name        string
	Quantity    int64
	UnitPrice   decimal.Decimal
	MarketValue decimal.Decimal // Quantity × UnitPrice
}

// PortfolioView represents a portfolio's funds and enriched holdings.
type PortfolioView struct {
	PortfolioID  string
	Funds        decimal.Decimal
	FundsDisplay string
	Holdings     []HoldingView
	HoldingValue decimal.Decimal
}

// PortfolioService opens portfolios and applies trades to their ledgers.
type PortfolioService struct {
	portfolios   *store.PortfolioStore
	trades       *store.TradeStore
	quotes       *store.QuoteStore
	initialFunds decimal.Decimal
	policy       ledger.Policy
	currency     string
}

// NewPortfolioService creates a new PortfolioService. Portfolios opened
// without explicit funds start with initialFunds; every ledger enforces
// policy; amounts are displayed in currency.
func NewPortfolioService(
	portfolios *store.PortfolioStore,
	trades *store.TradeStore,
	quotes *store.QuoteStore,
	initialFunds decimal.Decimal,
	policy ledger.Policy,
	currency string,
) *PortfolioService {
	return &PortfolioService{
		portfolios:   portfolios,
		trades:       trades,
		quotes:       quotes,
		initialFunds: initialFunds,
		policy:       policy,
		currency:     currency,
	}
}

// Open validates the request and creates an empty ledger for it.
func (s *PortfolioService) Open(req OpenPortfolioRequest) (*PortfolioView, error) {
	id := req.PortfolioID
	if id == "" {
		id = uuid.NewString()
	}
	if !portfolioIDRegex.MatchString(id) {
		return nil, &domain.ValidationError{
			Message: "portfolio_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	funds := s.initialFunds
	if req.InitialFunds != nil {
		funds = *req.InitialFunds
	}
	if funds.IsNegative() {
		return nil, &domain.ValidationError{
			Message: "initial_funds must be >= 0",
		}
	}
	if !domain.HasAtMostDecimals(funds, domain.MaxPriceDecimals) {
		return nil, &domain.ValidationError{
			Message: "initial_funds must have at most 2 decimal places",
		}
	}

	if err := s.portfolios.Create(id, ledger.New(funds, s.policy)); err != nil {
		return nil, err
	}

	return &PortfolioView{
		PortfolioID:  id,
		Funds:        funds,
		FundsDisplay: domain.FormatMoney(funds, s.currency),
		Holdings:     []HoldingView{},
		HoldingValue: decimal.Zero,
	}, nil
}

// Buy applies a purchase to the portfolio and journals it.
func (s *PortfolioService) Buy(portfolioID string, req TradeRequest) (*TradeResult, error) {
	l, price, err := s.prepareTrade(portfolioID, req)
	if err != nil {
		return nil, err
	}

	snap, err := l.Buy(ledger.BuyRequest{
		SecurityID: req.SecurityID,
		Quantity:   req.Quantity,
		UnitPrice:  price,
	})
	if err != nil {
		return nil, err
	}

	return s.record(portfolioID, domain.SideBuy, req, price, snap), nil
}

// Sell applies a sale to the portfolio and journals it.
func (s *PortfolioService) Sell(portfolioID string, req TradeRequest) (*TradeResult, error) {
	l, price, err := s.prepareTrade(portfolioID, req)
	if err != nil {
		return nil, err
	}

	snap, err := l.Sell(ledger.SellRequest{
		SecurityID: req.SecurityID,
		Quantity:   req.Quantity,
		UnitPrice:  price,
	})
	if err != nil {
		return nil, err
	}

	return s.record(portfolioID, domain.SideSell, req, price, snap), nil
}

// prepareTrade validates the request, resolves the ledger, and settles
// the unit price, falling back to the catalog when none was given.
func (s *PortfolioService) prepareTrade(portfolioID string, req TradeRequest) (*ledger.Ledger, decimal.Decimal, error) {
	if !securityIDRegex.MatchString(req.SecurityID) {
		return nil, decimal.Zero, &domain.ValidationError{
			Message: "security_id must match ^[a-zA-Z0-9._-]{1,32}$",
		}
	}
	if req.Quantity <= 0 {
		return nil, decimal.Zero, fmt.Errorf("quantity must be a positive integer, got %d: %w",
			req.Quantity, domain.ErrInvalidQuantity)
	}
	if req.UnitPrice != nil && !domain.HasAtMostDecimals(*req.UnitPrice, domain.MaxPriceDecimals) {
		return nil, decimal.Zero, &domain.ValidationError{
			Message: "unit_price must have at most 2 decimal places",
		}
	}

	l, err := s.portfolios.Get(portfolioID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if req.UnitPrice != nil {
		return l, *req.UnitPrice, nil
	}
	q, err := s.quotes.Get(req.SecurityID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("no unit_price given and %s is not quoted: %w", req.SecurityID, err)
	}
	return l, q.Price, nil
}

func (s *PortfolioService) record(portfolioID string, side domain.Side, req TradeRequest, price decimal.Decimal, snap ledger.Snapshot) *TradeResult {
	trade := &domain.Trade{
		TradeID:     uuid.NewString(),
		PortfolioID: portfolioID,
		Seq:         snap.Seq,
		Side:        side,
		SecurityID:  req.SecurityID,
		Quantity:    req.Quantity,
		UnitPrice:   price,
		Total:       price.Mul(decimal.NewFromInt(req.Quantity)),
		ExecutedAt:  time.Now(),
	}
	s.trades.Append(trade)

	return &TradeResult{
		Trade:    trade,
		Funds:    snap.Funds,
		Holdings: snap.Holdings,
	}
}

// Funds returns the portfolio's available funds.
func (s *PortfolioService) Funds(portfolioID string) (*FundsView, error) {
	l, err := s.portfolios.Get(portfolioID)
	if err != nil {
		return nil, err
	}

	funds := l.AvailableFunds()
	return &FundsView{
		PortfolioID:  portfolioID,
		Funds:        funds,
		FundsDisplay: domain.FormatMoney(funds, s.currency),
	}, nil
}

// Get returns the portfolio's funds and its holdings joined with the
// quote catalog. It fails with domain.ErrUnknownSecurity when a held
// security has no quote.
func (s *PortfolioService) Get(portfolioID string) (*PortfolioView, error) {
	l, err := s.portfolios.Get(portfolioID)
	if err != nil {
		return nil, err
	}

	enriched, err := l.EnrichedHoldings(s.quotes)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	holdings := make([]HoldingView, len(enriched))
	for i, h := range enriched {
		value := h.UnitPrice.Mul(decimal.NewFromInt(h.Quantity))
		total = total.Add(value)
		holdings[i] = HoldingView{
			SecurityID:  h.SecurityID,
			Name:        h.Name,
			Quantity:    h.Quantity,
			UnitPrice:   h.UnitPrice,
			MarketValue: value,
		}
	}

	funds := l.AvailableFunds()
	return &PortfolioView{
		PortfolioID:  portfolioID,
		Funds:        funds,
		FundsDisplay: domain.FormatMoney(funds, s.currency),
		Holdings:     holdings,
		HoldingValue: total,
	}, nil
}

// ListTrades returns the portfolio's trade journal, newest first.
func (s *PortfolioService) ListTrades(portfolioID string, page, limit int) ([]*domain.Trade, int, error) {
	if !s.portfolios.Exists(portfolioID) {
		return nil, 0, domain.ErrPortfolioNotFound
	}

	if page < 1 {
		return nil, 0, &domain.ValidationError{
			Message: "page must be >= 1",
		}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}

	trades, total := s.trades.ListByPortfolio(portfolioID, page, limit)
	return trades, total, nil
}
