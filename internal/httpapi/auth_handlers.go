package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"rmdesk.org/internal/auth"
)

type loginRequest struct {
	CustomerID string `json:"customer_id"`
	Credential string `json:"credential"`
}

type loginResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Tier       string    `json:"tier"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	if req.CustomerID == "" || req.Credential == "" {
		writeError(w, r, http.StatusBadRequest, "customer_id and credential are required")
		return
	}

	out := a.desk.Authenticate(r.Context(), req.CustomerID, req.Credential)
	if !out.Authenticated {
		writeAuthError(w, r, out.Err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:      out.SessionToken,
		ExpiresAt:  out.ExpiresAt,
		CustomerID: out.Customer.ID,
		Name:       out.Customer.Name,
		Tier:       string(out.Customer.Tier),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	revoked := a.desk.Logout(r.Context(), token)
	writeJSON(w, http.StatusOK, map[string]any{"revoked": revoked})
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	rec, _, ok := a.requireSession(w, r)
	if !ok {
		return
	}
	writeCustomer(w, rec)
}

// writeAuthError maps verifier sentinels to HTTP statuses without leaking
// anything beyond the documented classification.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	class := auth.Classify(err)
	switch {
	case errors.Is(err, auth.ErrCustomerNotFound):
		writeErrorClass(w, r, http.StatusNotFound, class)
	case errors.Is(err, auth.ErrAccountLocked):
		writeErrorClass(w, r, http.StatusLocked, class)
	case errors.Is(err, auth.ErrAccountNotActive):
		writeErrorClass(w, r, http.StatusForbidden, class)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorClass(w, r, http.StatusUnauthorized, class)
	default:
		writeError(w, r, http.StatusInternalServerError, "authentication error")
	}
}

func writeErrorClass(w http.ResponseWriter, r *http.Request, code int, class auth.Classification) {
	writeError(w, r, code, string(class))
}
