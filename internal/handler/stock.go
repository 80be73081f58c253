package handler

import (
	"net/http"

	"github.com/efreitasn/stocktrader/internal/domain"
	"github.com/efreitasn/stocktrader/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// StockHandler handles HTTP requests for the quote catalog.
type StockHandler struct {
	stockSvc *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// upsertQuoteRequest is the JSON request body for PUT /stocks/{security_id}.
type upsertQuoteRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// quoteResponse is a single quote.
type quoteResponse struct {
	SecurityID string          `json:"security_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

// quoteListResponse is the JSON response for GET /stocks.
type quoteListResponse struct {
	Stocks []quoteResponse `json:"stocks"`
}

// Upsert handles PUT /stocks/{security_id}.
func (h *StockHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertQuoteRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Price == nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "price is required")
		return
	}

	q, created, err := h.stockSvc.Upsert(service.UpsertQuoteRequest{
		SecurityID: chi.URLParam(r, "security_id"),
		Name:       req.Name,
		Price:      *req.Price,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, toQuoteResponse(q))
}

// Get handles GET /stocks/{security_id}.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.stockSvc.Get(chi.URLParam(r, "security_id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toQuoteResponse(q))
}

// List handles GET /stocks.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes := h.stockSvc.List()

	stocks := make([]quoteResponse, len(quotes))
	for i, q := range quotes {
		stocks[i] = toQuoteResponse(q)
	}
	WriteJSON(w, http.StatusOK, quoteListResponse{Stocks: stocks})
}

func toQuoteResponse(q domain.Quote) quoteResponse {
	return quoteResponse{
		SecurityID: q.SecurityID,
		Name:       q.Name,
		Price:      q.Price,
	}
}
