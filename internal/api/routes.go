package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Logging(handler.logger), Recover(handler.logger))

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Stocks and prices
	api.HandleFunc("/stocks", handler.GetAllStocks).Methods("GET")
	api.HandleFunc("/stocks/{symbol}", handler.GetStock).Methods("GET")
	api.HandleFunc("/quotes", handler.GetQuotes).Methods("GET")
	api.HandleFunc("/quotes/{symbol}", handler.GetQuote).Methods("GET")
	api.HandleFunc("/prices/refresh", handler.RefreshPrices).Methods("POST")

	// Trading
	api.HandleFunc("/buy", handler.Buy).Methods("POST")
	api.HandleFunc("/sell", handler.Sell).Methods("POST")
	api.HandleFunc("/portfolios/{id}", handler.GetPortfolio).Methods("GET")
	api.HandleFunc("/portfolios/{id}/buy", handler.Buy).Methods("POST")
	api.HandleFunc("/portfolios/{id}/sell", handler.Sell).Methods("POST")
	api.HandleFunc("/portfolios/{id}/transactions", handler.GetTransactions).Methods("GET")

	// Budget
	api.HandleFunc("/budget", handler.GetBudget).Methods("GET")
	api.HandleFunc("/budget/categories", handler.GetCategories).Methods("GET")
	api.HandleFunc("/budget/categories", handler.AddCategory).Methods("POST")
	api.HandleFunc("/budget/transactions", handler.GetBudgetTransactions).Methods("GET")
	api.HandleFunc("/budget/transactions", handler.AddBudgetTransaction).Methods("POST")

	// Price stream
	if handler.hub != nil {
		api.HandleFunc("/ws/prices", handler.hub.ServeWS).Methods("GET")
	}

	return r
}
