package guard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/accesskit/pkg/authz"
)

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// respondDenied maps a checker denial onto the HTTP status line: missing
// identity asks for authentication, every other denial is forbidden.
func respondDenied(w http.ResponseWriter, err error) {
	if errors.Is(err, authz.ErrNoIdentity) {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeError(w, http.StatusForbidden, "access denied")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Status: status})
}
