package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/budget"
	"github.com/trogers1052/paisabuddy/internal/models"
)

const dateLayout = "2006-01-02"

type categoryBody struct {
	Name string `json:"name"`
}

type budgetTransactionBody struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Date            string          `json:"date"`
	CategoryID      int64           `json:"category_id"`
	TransactionType string          `json:"transaction_type"`
}

// GetBudget handles GET /budget
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	overview, err := h.budget.Overview(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"summary":         overview.Summary,
		"balance_display": FormatINR(overview.Summary.Balance),
		"transactions":    overview.Transactions,
		"categories":      overview.Categories,
	})
}

// GetCategories handles GET /budget/categories
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.budget.ListCategories(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// AddCategory handles POST /budget/categories
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryBody
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		body.Name = r.PostFormValue("name")
	} else if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.budget.CreateCategory(r.Context(), body.Name)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// GetBudgetTransactions handles GET /budget/transactions
func (h *Handler) GetBudgetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.budget.ListTransactions(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []*models.BudgetTransaction{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})
}

// AddBudgetTransaction handles POST /budget/transactions with a JSON or
// form-encoded body
func (h *Handler) AddBudgetTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := decodeBudgetTransaction(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.budget.AddTransaction(r.Context(), *in)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

func decodeBudgetTransaction(r *http.Request) (*budget.TransactionInput, error) {
	var body budgetTransactionBody
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return nil, errInvalidBody
		}
		amount, err := decimal.NewFromString(r.PostFormValue("amount"))
		if err != nil {
			return nil, budget.ErrInvalidAmount
		}
		categoryID, err := strconv.ParseInt(r.PostFormValue("category"), 10, 64)
		if err != nil {
			return nil, errInvalidCategory
		}
		body = budgetTransactionBody{
			Amount:          amount,
			Description:     r.PostFormValue("description"),
			Date:            r.PostFormValue("date"),
			CategoryID:      categoryID,
			TransactionType: r.PostFormValue("transaction_type"),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errInvalidBody
	}

	in := &budget.TransactionInput{
		Amount:          body.Amount,
		Description:     body.Description,
		CategoryID:      body.CategoryID,
		TransactionType: body.TransactionType,
	}
	if body.Date != "" {
		date, err := time.Parse(dateLayout, body.Date)
		if err != nil {
			return nil, errInvalidDate
		}
		in.Date = date
	}
	return in, nil
}
