package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/trogers1052/paisabuddy/internal/budget"
	"github.com/trogers1052/paisabuddy/internal/models"
	"github.com/trogers1052/paisabuddy/internal/portfolio"
)

// StockStore reads stocks
type StockStore interface {
	GetAllStocks(ctx context.Context) ([]*models.Stock, error)
	GetStockBySymbol(ctx context.Context, symbol string) (*models.Stock, error)
}

// Trader executes trades and values portfolios
type Trader interface {
	Buy(ctx context.Context, req portfolio.TradeRequest) (*portfolio.TradeResult, error)
	Sell(ctx context.Context, req portfolio.TradeRequest) (*portfolio.TradeResult, error)
	Summary(ctx context.Context, portfolioID int64) (*models.PortfolioSummary, error)
	History(ctx context.Context, portfolioID int64, limit int) ([]*models.LedgerEntry, error)
}

// PriceRefresher walks stock prices
type PriceRefresher interface {
	Refresh(ctx context.Context) ([]models.PriceQuote, error)
}

// QuoteSource serves cached quotes
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (*models.PriceQuote, error)
	AllQuotes(ctx context.Context) ([]models.PriceQuote, error)
}

// Budget manages the budget tracker
type Budget interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	AddTransaction(ctx context.Context, in budget.TransactionInput) (*models.BudgetTransaction, error)
	ListTransactions(ctx context.Context) ([]*models.BudgetTransaction, error)
	Overview(ctx context.Context) (*budget.Overview, error)
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options holds the dependencies of a Handler. Quotes, Health and Hub are optional.
type Options struct {
	Stocks StockStore
	Trader Trader
	Prices PriceRefresher
	Quotes QuoteSource
	Budget Budget
	Health Pinger
	Hub    *Hub
	Logger *slog.Logger
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	stocks StockStore
	trader Trader
	prices PriceRefresher
	quotes QuoteSource
	budget Budget
	health Pinger
	hub    *Hub
	logger *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(opts Options) *Handler {
	h := &Handler{
		stocks: opts.Stocks,
		trader: opts.Trader,
		prices: opts.Prices,
		quotes: opts.Quotes,
		budget: opts.Budget,
		health: opts.Health,
		hub:    opts.Hub,
		logger: opts.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// GetAllStocks handles GET /stocks and GET /stocks?symbol=S
func (h *Handler) GetAllStocks(w http.ResponseWriter, r *http.Request) {
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		h.respondStock(w, r, symbol)
		return
	}

	stocks, err := h.stocks.GetAllStocks(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if stocks == nil {
		stocks = []*models.Stock{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"stocks": stocks})
}

// GetStock handles GET /stocks/{symbol}
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	h.respondStock(w, r, mux.Vars(r)["symbol"])
}

func (h *Handler) respondStock(w http.ResponseWriter, r *http.Request, symbol string) {
	stock, err := h.stocks.GetStockBySymbol(r.Context(), strings.ToUpper(symbol))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, stock)
}

// GetQuotes handles GET /quotes. Cached quotes are served when available;
// otherwise the store's current prices are used.
func (h *Handler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	if h.quotes != nil {
		quotes, err := h.quotes.AllQuotes(r.Context())
		if err == nil && len(quotes) > 0 {
			respondJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes, "source": "cache"})
			return
		}
		if err != nil {
			h.logger.WarnContext(r.Context(), "quote cache unavailable", slog.Any("error", err))
		}
	}

	stocks, err := h.stocks.GetAllStocks(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	quotes := make([]models.PriceQuote, 0, len(stocks))
	for _, s := range stocks {
		quotes = append(quotes, s.Quote())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes, "source": "store"})
}

// GetQuote handles GET /quotes/{symbol}, preferring the cache like GetQuotes
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	if h.quotes != nil {
		quote, err := h.quotes.GetQuote(r.Context(), symbol)
		if err == nil {
			respondJSON(w, http.StatusOK, map[string]interface{}{"quote": quote, "source": "cache"})
			return
		}
		if !errors.Is(err, models.ErrNotFound) {
			h.logger.WarnContext(r.Context(), "quote cache unavailable", slog.Any("error", err))
		}
	}

	stock, err := h.stocks.GetStockBySymbol(r.Context(), symbol)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"quote": stock.Quote(), "source": "store"})
}

// RefreshPrices handles POST /prices/refresh
func (h *Handler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.prices.Refresh(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if quotes == nil {
		quotes = []models.PriceQuote{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"stocks": quotes})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrStockNotFound),
		errors.Is(err, budget.ErrCategoryNotFound),
		errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, portfolio.ErrDuplicateOrder):
		return http.StatusConflict
	case errors.Is(err, portfolio.ErrInvalidQuantity),
		errors.Is(err, portfolio.ErrInvalidPrice),
		errors.Is(err, portfolio.ErrInsufficientFunds),
		errors.Is(err, portfolio.ErrInsufficientShares),
		errors.Is(err, portfolio.ErrNoPosition),
		errors.Is(err, portfolio.ErrBalanceLimit),
		errors.Is(err, budget.ErrInvalidAmount),
		errors.Is(err, budget.ErrInvalidType),
		errors.Is(err, budget.ErrInvalidName),
		errors.Is(err, budget.ErrInvalidDescription):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondErr writes err with its mapped status. Internal errors are logged
// and not echoed to the client.
func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		respondError(w, status, "internal server error")
		return
	}
	respondError(w, status, err.Error())
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
