package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"tripledger/internal/models"
	"tripledger/internal/repositories/sqlconnect"
	"tripledger/internal/repositories/tripstore"
	"tripledger/pkg/utils"
)

// FUNC TO LOG USERS IN
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req loginRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		utils.WriteError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user := &models.User{}

	query := "SELECT id, username, email, password, role FROM users WHERE username = ?"
	err = db.QueryRow(query, req.Username).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			loginAsMember(w, r, db, req.Username, req.Password)
			return
		}
		utils.Logger.Error("database query error")
		utils.WriteError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := utils.VerifyPassword(req.Password, user.Password); err != nil {
		utils.WriteError(w, "incorrect username or password", http.StatusForbidden)
		return
	}

	tokenString, err := utils.SignToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.Logger.Error("could not create login token")
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := map[string]interface{}{
		"status":  "success",
		"message": "login successful",
		"token":   tokenString,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// FUNC TO LOG A TRIP MEMBER IN WITH THEIR GENERATED CREDENTIAL
// Members have no user account; when the username matches no account, login
// falls back to the credentials issued when an admin added them to a trip,
// and the token carries the member role scoped to those trips.
func loginAsMember(w http.ResponseWriter, r *http.Request, db *sql.DB, name, password string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	logins, err := tripstore.FindMemberLogins(ctx, db, name)
	if err != nil {
		utils.Logger.Errorf("failed to look up member credentials: %v", err)
		utils.WriteError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(logins) == 0 {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}

	var tripIDs []string
	for _, login := range logins {
		if utils.VerifyMemberPassword(password, login.Password) {
			tripIDs = append(tripIDs, login.TripID)
		}
	}
	if len(tripIDs) == 0 {
		utils.WriteError(w, "incorrect username or password", http.StatusForbidden)
		return
	}

	tokenString, err := utils.SignToken(0, name, "member")
	if err != nil {
		utils.Logger.Error("could not create login token")
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "login successful",
		"token":   tokenString,
		"user": map[string]interface{}{
			"username": name,
			"role":     "member",
			"trips":    tripIDs,
		},
	})
}

// FUNC FOR LOGOUT
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message": "logged out successfully"}`))
}
