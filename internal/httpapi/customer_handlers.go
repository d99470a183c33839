package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"rmdesk.org/internal/customer"
)

type profileUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// handleCustomer serves GET /v1/customers/{id} and
// POST /v1/customers/{id}/profile. Both are scoped to the session's own
// customer: looking up or editing someone else's record is a 403.
func (a *API) handleCustomer(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/customers/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.customerByID(w, r, parts[0])
	case len(parts) == 2 && parts[0] != "" && parts[1] == "profile":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.updateCustomerProfile(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

func (a *API) customerByID(w http.ResponseWriter, r *http.Request, id string) {
	rec, _, ok := a.requireSession(w, r)
	if !ok {
		return
	}
	if rec.ID != id {
		writeError(w, r, http.StatusForbidden, "customer records are private")
		return
	}
	writeCustomer(w, rec)
}

func (a *API) updateCustomerProfile(w http.ResponseWriter, r *http.Request, id string) {
	rec, token, ok := a.requireSession(w, r)
	if !ok {
		return
	}
	if rec.ID != id {
		writeError(w, r, http.StatusForbidden, "customer records are private")
		return
	}

	var req profileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil {
		writeError(w, r, http.StatusBadRequest, "at least one of name, email or phone is required")
		return
	}

	updated, err := a.desk.UpdateProfile(r.Context(), token, customer.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, customer.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "profile update failed")
		return
	}
	writeCustomer(w, updated)
}

func writeCustomer(w http.ResponseWriter, rec customer.Record) {
	writeJSON(w, http.StatusOK, map[string]any{
		"customer_id": rec.ID,
		"name":        rec.Name,
		"email":       rec.Email,
		"phone":       rec.Phone,
		"tier":        string(rec.Tier),
		"status":      string(rec.Status),
		"last_login":  rec.LastLogin,
	})
}
