package handlers

import (
	"context"
	"net/http"

	"tripledger/internal/ledger"
	"tripledger/pkg/utils"
)

// Requester is the authenticated identity every operation receives. It is
// built from verified JWT claims, never from request fields.
type Requester struct {
	Username string
	Role     string
}

func (req Requester) IsAdmin() bool {
	return req.Role == "admin"
}

// CanModify reports whether the requester may edit or delete a record
// created by createdBy: only the original creator or an admin may.
func (req Requester) CanModify(createdBy string) bool {
	return req.IsAdmin() || req.Username == createdBy
}

// RequesterFromContext extracts the identity the JWT middleware stored.
func RequesterFromContext(ctx context.Context) (Requester, bool) {
	username, ok := ctx.Value(utils.ContextKey("username")).(string)
	if !ok || username == "" {
		return Requester{}, false
	}
	role, _ := ctx.Value(utils.ContextKey("role")).(string)
	return Requester{Username: username, Role: role}, true
}

// WriteRejection maps a ledger rejection kind to an HTTP status and writes
// the specific user-facing message.
func WriteRejection(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidation(err):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case ledger.IsAuthorization(err):
		utils.WriteError(w, err.Error(), http.StatusForbidden)
	default:
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
