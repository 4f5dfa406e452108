package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tripledger/internal/api/handlers"
	"tripledger/internal/models"
	"tripledger/internal/repositories/sqlconnect"
	"tripledger/pkg/utils"
)

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

// FUNC TO CREATE A USER ACCOUNT (ADMIN ONLY)
func AddUserHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Password == "" {
		utils.WriteError(w, "username and password are required", http.StatusBadRequest)
		return
	}
	if req.Role != "admin" {
		req.Role = "user"
	}

	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)",
		req.Username, req.Email, hashedPwd, req.Role,
	)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "username already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert user: %v", err)
		utils.WriteError(w, "error creating user", http.StatusInternalServerError)
		return
	}

	id, _ := res.LastInsertId()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("user %s created", req.Username),
		"data": map[string]interface{}{
			"id":       id,
			"username": req.Username,
			"role":     req.Role,
		},
	})
}

// FUNC TO DELETE A USER ACCOUNT (ADMIN ONLY)
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
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

	username := strings.ToLower(r.PathValue("username"))
	if username == "" {
		utils.WriteError(w, "username is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		utils.Logger.Errorf("failed to delete user: %v", err)
		utils.WriteError(w, "error deleting user", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("user %s deleted", username),
	})
}

// FUNC TO UPDATE A USER'S PASSWORD (ADMIN ONLY)
func UpdateUserPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
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

	username := strings.ToLower(r.PathValue("username"))

	type request struct {
		NewPassword string `json:"new_password"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.NewPassword == "" {
		utils.WriteError(w, "new password is required", http.StatusBadRequest)
		return
	}

	hashedPwd, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "UPDATE users SET password = ? WHERE username = ?", hashedPwd, username)
	if err != nil {
		utils.Logger.Errorf("failed to update password: %v", err)
		utils.WriteError(w, "error updating password", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": fmt.Sprintf("password updated for %s", username),
	})
}

// FUNC TO LIST ALL USER ACCOUNTS (ADMIN ONLY)
func GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "SELECT id, username, email, role, created_at FROM users ORDER BY created_at")
	if err != nil {
		utils.WriteError(w, "failed to retrieve users", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning user: %v", err)
			continue
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing users read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(users),
		"users":  users,
	})
}

// FUNC TO BATCH CREATE USER ACCOUNTS (ADMIN ONLY)
func BatchCreateUsersHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	type entry struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type result struct {
		Username string `json:"username"`
		Success  bool   `json:"success"`
		Message  string `json:"message"`
	}

	var entries []entry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	var results []result
	for _, e := range entries {
		username := strings.ToLower(strings.TrimSpace(e.Username))
		if username == "" || e.Password == "" {
			results = append(results, result{Username: username, Message: "username and password are required"})
			continue
		}

		hashedPwd, err := utils.HashPassword(e.Password)
		if err != nil {
			results = append(results, result{Username: username, Message: "error hashing password"})
			continue
		}

		_, err = db.ExecContext(ctx,
			"INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, 'user')",
			username, strings.ToLower(e.Email), hashedPwd,
		)
		if err != nil {
			if strings.Contains(err.Error(), "Duplicate entry") {
				results = append(results, result{Username: username, Message: "username already exists"})
				continue
			}
			utils.Logger.Errorf("failed to insert user %s: %v", username, err)
			results = append(results, result{Username: username, Message: "error creating user"})
			continue
		}
		results = append(results, result{Username: username, Success: true, Message: "created"})
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"results": results,
	})
}
