package trips

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripledger/internal/ledger"
	"tripledger/internal/repositories/sqlconnect"
	"tripledger/internal/repositories/tripstore"
	"tripledger/pkg/utils"
)

// FUNC TO ADD A MEMBER TO A TRIP (ADMIN ONLY)
func AddMemberHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	tripID := r.PathValue("id")

	type request struct {
		Name string `json:"name"`
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
		utils.WriteError(w, "member name invalid: must be 1-100 characters without special symbols", http.StatusBadRequest)
		return
	}

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

	if _, exists := trip.Members[name]; exists {
		utils.WriteError(w, "member already exists in this trip", http.StatusConflict)
		return
	}

	password, err := tripstore.AddMember(ctx, db, tripID, name)
	if err != nil {
		utils.Logger.Errorf("failed to add member: %v", err)
		utils.WriteError(w, "failed to add member", http.StatusInternalServerError)
		return
	}

	// If the member has a user account with an email, mail them their
	// credential so the admin does not have to pass it around by hand.
	var email string
	err = db.QueryRowContext(ctx, "SELECT email FROM users WHERE username = ?", name).Scan(&email)
	if err == nil && email != "" {
		go func(email, name, tripName, password string) {
			if err := utils.SendMemberCredentialEmail(email, name, tripName, password); err != nil {
				utils.Logger.Errorf("failed to send credential email to %s: %v", email, err)
			}
		}(email, name, trip.Name, password)
	} else if err != nil && err != sql.ErrNoRows {
		utils.Logger.Errorf("failed to look up member email: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("member %s added", name),
		"data": map[string]interface{}{
			"name":     name,
			"password": password,
		},
	})
}

// FUNC TO REMOVE A MEMBER FROM A TRIP (ADMIN ONLY)
func RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
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
	name := r.PathValue("name")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := tripstore.RemoveMember(ctx, db, tripID, name); err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "member not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to remove member: %v", err)
		utils.WriteError(w, "failed to remove member", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("member %s removed; their past expenses remain on the ledger", name),
	})
}

// FUNC TO RENAME A MEMBER ACROSS THE WHOLE LEDGER (ADMIN ONLY)
func RenameMemberHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	tripID := r.PathValue("id")
	oldName := r.PathValue("name")

	type request struct {
		NewName string `json:"new_name"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	newName, ok := ledger.SanitizeText(req.NewName)
	if !ok {
		utils.WriteError(w, "new name invalid: must be 1-100 characters without special symbols", http.StatusBadRequest)
		return
	}
	if newName == oldName {
		utils.WriteError(w, "new name is the same as the old name", http.StatusBadRequest)
		return
	}

	// Renames can touch every expense on the trip, so allow more time than
	// the usual request budget.
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	result, err := tripstore.RenameMember(ctx, db, tripID, oldName, newName)
	if err != nil {
		if err == tripstore.ErrNotFound {
			utils.WriteError(w, "member not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to rename member: %v", err)
		utils.WriteError(w, "failed to rename member", http.StatusInternalServerError)
		return
	}

	status := "success"
	message := fmt.Sprintf("member %s renamed to %s", oldName, newName)
	if result.Failed > 0 {
		status = "partial"
		message = fmt.Sprintf("member renamed but %d of %d expense records were not updated; retry the rename to finish", result.Failed, result.Total)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  status,
		"message": message,
		"rename":  result,
	})
}
