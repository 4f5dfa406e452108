package trips

import (
	"context"
	"net/http"
	"sort"
	"time"

	"tripledger/internal/api/handlers"
	"tripledger/internal/ledger"
	"tripledger/internal/models"
	"tripledger/internal/repositories/sqlconnect"
	"tripledger/internal/repositories/tripstore"
	"tripledger/pkg/utils"
)

// FUNC TO COMPUTE THE SETTLEMENT BALANCES OF A TRIP
func GetTripBalancesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if _, ok := handlers.RequesterFromContext(r.Context()); !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := tripstore.GetTrip(ctx, db, tripID)
	if err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "trip not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to retrieve trip: %v", err)
		utils.WriteError(w, "failed to retrieve trip", http.StatusInternalServerError)
		return
	}

	members := make([]string, 0, len(trip.Members))
	for name := range trip.Members {
		members = append(members, name)
	}

	expenses := make([]models.Expense, 0, len(trip.Expenses))
	for _, expense := range trip.Expenses {
		expenses = append(expenses, expense)
	}

	balances := ledger.ComputeBalances(members, expenses)

	type balanceEntry struct {
		Name    string `json:"name"`
		Balance string `json:"balance"`
		Display string `json:"display"`
		Status  string `json:"status"`
	}

	entries := make([]balanceEntry, 0, len(balances))
	for name, balance := range balances {
		entries = append(entries, balanceEntry{
			Name:    name,
			Balance: balance.StringFixed(2),
			Display: balance.Round(0).String(),
			Status:  ledger.BalanceStatus(balance),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"trip_id":  tripID,
		"currency": trip.Currency,
		"balances": entries,
	})
}
