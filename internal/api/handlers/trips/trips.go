package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripledger/internal/api/handlers"
	"tripledger/internal/ledger"
	"tripledger/internal/models"
	"tripledger/internal/repositories/sqlconnect"
	"tripledger/internal/repositories/tripstore"
	"tripledger/pkg/utils"
)

const defaultCurrency = "TWD"

func requireAdmin(w http.ResponseWriter, r *http.Request) (handlers.Requester, bool) {
	requester, ok := handlers.RequesterFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return handlers.Requester{}, false
	}
	if !requester.IsAdmin() {
		utils.WriteError(w, "admin privileges required", http.StatusForbidden)
		return handlers.Requester{}, false
	}
	return requester, true
}

// FUNC TO CREATE A TRIP (ADMIN ONLY)
func CreateTripHandler(w http.ResponseWriter, r *http.Request) {
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

	requester, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	type request struct {
		Name     string `json:"name"`
		Currency string `json:"currency"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	name, ok := ledger.SanitizeText(req.Name)
	if !ok {
		utils.WriteError(w, "trip name invalid: must be 1-100 characters without special symbols", http.StatusBadRequest)
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tripID, err := tripstore.CreateTrip(ctx, db, name, requester.Username, currency)
	if err != nil {
		utils.Logger.Errorf("failed to create trip: %v", err)
		utils.WriteError(w, "failed to create trip", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "trip created",
		"data": map[string]interface{}{
			"trip_id":  tripID,
			"name":     name,
			"currency": currency,
		},
	})
}

// FUNC TO GET ALL TRIPS
func GetAllTripsHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	trips, err := tripstore.ListTrips(ctx, db)
	if err != nil {
		utils.Logger.Errorf("failed to list trips: %v", err)
		utils.WriteError(w, "failed to retrieve trips", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(trips),
		"trips":  trips,
	})
}

// FUNC TO GET ONE TRIP WITH MEMBERS AND EXPENSES
func GetTripByIDHandler(w http.ResponseWriter, r *http.Request) {
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

	requester, ok := handlers.RequesterFromContext(r.Context())
	if !ok {
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
		utils.Logger.Errorf("failed to get trip: %v", err)
		utils.WriteError(w, "failed to retrieve trip", http.StatusInternalServerError)
		return
	}

	// Member credentials are only visible to admins.
	if !requester.IsAdmin() {
		redacted := make(map[string]models.Member, len(trip.Members))
		for name, member := range trip.Members {
			member.Password = ""
			redacted[name] = member
		}
		trip.Members = redacted
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"trip":   trip,
	})
}

// FUNC TO DELETE A TRIP AND EVERYTHING IN IT (ADMIN ONLY)
func DeleteTripHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	tripID := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := tripstore.DeleteTrip(ctx, db, tripID); err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "trip not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to delete trip: %v", err)
		utils.WriteError(w, "failed to delete trip", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "trip deleted with all members and expenses",
	})
}
