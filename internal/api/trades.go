package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
	"github.com/trogers1052/paisabuddy/internal/portfolio"
)

const maxHistoryLimit = 500

type tradeBody struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	OrderID  string          `json:"order_id,omitempty"`
}

// Buy handles POST /buy and POST /portfolios/{id}/buy
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.trader.Buy)
}

// Sell handles POST /sell and POST /portfolios/{id}/sell
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.trader.Sell)
}

type tradeFunc func(ctx context.Context, req portfolio.TradeRequest) (*portfolio.TradeResult, error)

func (h *Handler) trade(w http.ResponseWriter, r *http.Request, execute tradeFunc) {
	portfolioID, ok := portfolioIDFromRequest(w, r)
	if !ok {
		return
	}

	body, err := decodeTradeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	result, err := execute(r.Context(), portfolio.TradeRequest{
		PortfolioID: portfolioID,
		Symbol:      strings.ToUpper(strings.TrimSpace(body.Symbol)),
		Quantity:    body.Quantity,
		Price:       body.Price,
		OrderID:     body.OrderID,
	})
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"balance":     result.Balance,
		"holding":     result.Position,
		"transaction": result.Entry,
	})
}

// decodeTradeBody accepts JSON or form-encoded bodies
func decodeTradeBody(r *http.Request) (*tradeBody, error) {
	var body tradeBody
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		body.Symbol = r.PostFormValue("symbol")
		body.OrderID = r.PostFormValue("order_id")

		qty, err := strconv.ParseInt(r.PostFormValue("quantity"), 10, 64)
		if err != nil {
			return nil, err
		}
		body.Quantity = qty

		price, err := decimal.NewFromString(r.PostFormValue("price"))
		if err != nil {
			return nil, err
		}
		body.Price = price
		return &body, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

// GetPortfolio handles GET /portfolios/{id}
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := portfolioIDFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.trader.Summary(r.Context(), portfolioID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	summary.BalanceDisplay = FormatINR(summary.Balance)

	respondJSON(w, http.StatusOK, summary)
}

// GetTransactions handles GET /portfolios/{id}/transactions?limit=N
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	portfolioID, ok := portfolioIDFromRequest(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := h.trader.History(r.Context(), portfolioID, limit)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if entries == nil {
		entries = []*models.LedgerEntry{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"transactions": entries})
}

// portfolioIDFromRequest reads {id} from the path, defaulting to the
// default portfolio on routes without one. It writes a 400 and returns
// false when the id is malformed.
func portfolioIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return portfolio.DefaultPortfolioID, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid portfolio id")
		return 0, false
	}
	return id, true
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
