package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripledger/internal/api/handlers"
	"tripledger/internal/ledger"
	"tripledger/internal/repositories/sqlconnect"
	"tripledger/internal/repositories/tripstore"
	"tripledger/pkg/utils"
)

// FUNC TO SUBMIT A NEW EXPENSE
func CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	requester, ok := handlers.RequesterFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")

	var in ledger.ExpenseInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&in); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// The creator is the authenticated caller, never a client-supplied field.
	in.CreatedBy = requester.Username

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trip, err := tripstore.GetTrip(ctx, db, tripID)
	if err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "trip not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve trip", http.StatusInternalServerError)
		return
	}

	expense, err := ledger.ValidateExpenseInput(in, trip.Currency)
	if err != nil {
		handlers.WriteRejection(w, err)
		return
	}

	expenseID, err := tripstore.CreateExpense(ctx, db, tripID, expense)
	if err != nil {
		utils.Logger.Errorf("failed to create expense: %v", err)
		utils.WriteError(w, "failed to save expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "expense recorded",
		"data": map[string]interface{}{
			"expense_id":  expenseID,
			"description": expense.Description,
			"amount":      expense.Amount,
			"paid_by":     expense.PaidBy,
			"split_with":  expense.SplitWith,
		},
	})
}

// FUNC TO GET ALL EXPENSES OF A TRIP
func GetExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	expenses, err := tripstore.ListExpenses(ctx, db, tripID)
	if err != nil {
		utils.Logger.Errorf("failed to list expenses: %v", err)
		utils.WriteError(w, "failed to retrieve expenses", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"trip_id":  tripID,
		"count":    len(expenses),
		"expenses": expenses,
	})
}

// FUNC TO GET ONE EXPENSE
func GetExpenseByIdHandler(w http.ResponseWriter, r *http.Request) {
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
	expenseID := r.PathValue("expenseId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expense, err := tripstore.GetExpense(ctx, db, tripID, expenseID)
	if err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"expense": expense,
	})
}

// FUNC TO REVISE AN EXPENSE (CREATOR OR ADMIN ONLY)
func UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	requester, ok := handlers.RequesterFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	expenseID := r.PathValue("expenseId")

	var patch ledger.ExpensePatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	current, err := tripstore.GetExpense(ctx, db, tripID, expenseID)
	if err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	if !requester.CanModify(current.CreatedBy) {
		utils.WriteError(w, "only the expense creator or an admin may edit it", http.StatusForbidden)
		return
	}

	updated, err := ledger.ValidateExpenseUpdate(patch, current)
	if err != nil {
		handlers.WriteRejection(w, err)
		return
	}

	if err := tripstore.UpdateExpense(ctx, db, tripID, updated); err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to update expense: %v", err)
		utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense updated",
		"expense": updated,
	})
}

// FUNC TO DELETE AN EXPENSE (CREATOR OR ADMIN ONLY)
func DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	requester, ok := handlers.RequesterFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	expenseID := r.PathValue("expenseId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	current, err := tripstore.GetExpense(ctx, db, tripID, expenseID)
	if err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve expense", http.StatusInternalServerError)
		return
	}

	if !requester.CanModify(current.CreatedBy) {
		utils.WriteError(w, "only the expense creator or an admin may delete it", http.StatusForbidden)
		return
	}

	if err := tripstore.DeleteExpense(ctx, db, tripID, expenseID); err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "expense not found or already deleted", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to delete expense: %v", err)
		utils.WriteError(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense deleted",
	})
}
