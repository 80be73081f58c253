package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/efreitasn/stocktrader/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
type PortfolioHandler struct {
	portfolioSvc *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioSvc *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioSvc: portfolioSvc}
}

// openPortfolioRequest is the JSON request body for POST /portfolios.
type openPortfolioRequest struct {
	PortfolioID  string           `json:"portfolio_id"`
	InitialFunds *decimal.Decimal `json:"initial_funds"`
}

// tradeRequest is the JSON request body for the buy and sell endpoints.
type tradeRequest struct {
	SecurityID string           `json:"security_id"`
	Quantity   int64            `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
}

// holdingResponse is a single enriched holding.
type holdingResponse struct {
	SecurityID  string          `json:"security_id"`
	Name        string          `json:"name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// portfolioResponse is the JSON response for POST /portfolios and
// GET /portfolios/{portfolio_id}.
type portfolioResponse struct {
	PortfolioID  string            `json:"portfolio_id"`
	Funds        decimal.Decimal   `json:"funds"`
	FundsDisplay string            `json:"funds_display"`
	Holdings     []holdingResponse `json:"holdings"`
	HoldingValue decimal.Decimal   `json:"holding_value"`
}

// fundsResponse is the JSON response for GET /portfolios/{portfolio_id}/funds.
type fundsResponse struct {
	PortfolioID  string          `json:"portfolio_id"`
	Funds        decimal.Decimal `json:"funds"`
	FundsDisplay string          `json:"funds_display"`
}

// positionResponse is a bare holding in a trade response.
type positionResponse struct {
	SecurityID string `json:"security_id"`
	Quantity   int64  `json:"quantity"`
}

// tradeEntryResponse is a single journal entry.
type tradeEntryResponse struct {
	TradeID    string          `json:"trade_id"`
	Side       string          `json:"side"`
	SecurityID string          `json:"security_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
	ExecutedAt string          `json:"executed_at"`
}

// tradeResponse is the JSON response for the buy and sell endpoints.
type tradeResponse struct {
	Trade    tradeEntryResponse `json:"trade"`
	Funds    decimal.Decimal    `json:"funds"`
	Holdings []positionResponse `json:"holdings"`
}

// tradeListResponse is the JSON response for GET /portfolios/{portfolio_id}/trades.
type tradeListResponse struct {
	Trades []tradeEntryResponse `json:"trades"`
	Total  int                  `json:"total"`
	Page   int                  `json:"page"`
	Limit  int                  `json:"limit"`
}

// Open handles POST /portfolios.
func (h *PortfolioHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openPortfolioRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.portfolioSvc.Open(service.OpenPortfolioRequest{
		PortfolioID:  req.PortfolioID,
		InitialFunds: req.InitialFunds,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toPortfolioResponse(view))
}

// Get handles GET /portfolios/{portfolio_id}.
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.portfolioSvc.Get(chi.URLParam(r, "portfolio_id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toPortfolioResponse(view))
}

// Funds handles GET /portfolios/{portfolio_id}/funds.
func (h *PortfolioHandler) Funds(w http.ResponseWriter, r *http.Request) {
	view, err := h.portfolioSvc.Funds(chi.URLParam(r, "portfolio_id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, fundsResponse{
		PortfolioID:  view.PortfolioID,
		Funds:        view.Funds,
		FundsDisplay: view.FundsDisplay,
	})
}

// Buy handles POST /portfolios/{portfolio_id}/buy.
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.portfolioSvc.Buy)
}

// Sell handles POST /portfolios/{portfolio_id}/sell.
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.portfolioSvc.Sell)
}

func (h *PortfolioHandler) trade(
	w http.ResponseWriter,
	r *http.Request,
	apply func(string, service.TradeRequest) (*service.TradeResult, error),
) {
	var req tradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := apply(chi.URLParam(r, "portfolio_id"), service.TradeRequest{
		SecurityID: req.SecurityID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	holdings := make([]positionResponse, len(res.Holdings))
	for i, hd := range res.Holdings {
		holdings[i] = positionResponse{SecurityID: hd.SecurityID, Quantity: hd.Quantity}
	}

	WriteJSON(w, http.StatusOK, tradeResponse{
		Trade:    toTradeEntryResponse(res.Trade),
		Funds:    res.Funds,
		Holdings: holdings,
	})
}

// ListTrades handles GET /portfolios/{portfolio_id}/trades.
func (h *PortfolioHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolio_id")

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a valid integer")
			return
		}
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
	}

	trades, total, err := h.portfolioSvc.ListTrades(portfolioID, page, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	entries := make([]tradeEntryResponse, len(trades))
	for i, t := range trades {
		entries[i] = toTradeEntryResponse(t)
	}

	WriteJSON(w, http.StatusOK, tradeListResponse{
		Trades: entries,
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

func toPortfolioResponse(view *service.PortfolioView) portfolioResponse {
	holdings := make([]holdingResponse, len(view.Holdings))
	for i, hd := range view.Holdings {
		holdings[i] = holdingResponse{
			SecurityID:  hd.SecurityID,
			Name:        hd.Name,
			Quantity:    hd.Quantity,
			UnitPrice:   hd.UnitPrice,
			MarketValue: hd.MarketValue,
		}
	}
	return portfolioResponse{
		PortfolioID:  view.PortfolioID,
		Funds:        view.Funds,
		FundsDisplay: view.FundsDisplay,
		Holdings:     holdings,
		HoldingValue: view.HoldingValue,
	}
}

func toTradeEntryResponse(t *domain.Trade) tradeEntryResponse {
	return tradeEntryResponse{
		TradeID:    t.TradeID,
		Side:       string(t.Side),
		SecurityID: t.SecurityID,
		Quantity:   t.Quantity,
		UnitPrice:  t.UnitPrice,
		Total:      t.Total,
		ExecutedAt: formatTime(t.ExecutedAt),
	}
}
