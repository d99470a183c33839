package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"rmdesk.org/internal/auth"
	"rmdesk.org/internal/intent"
	"rmdesk.org/internal/remittance"
)

// handleRemittance serves GET /v1/remittances/{reference}, scoped to the
// authenticated customer and gated on the caller's tier.
func (a *API) handleRemittance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.remittances == nil {
		writeError(w, r, http.StatusNotFound, "remittance lookups are not enabled")
		return
	}

	rec, _, ok := a.requireSession(w, r)
	if !ok {
		return
	}
	if !auth.Allowed(rec.Tier, intent.RemittanceStatus) {
		writeError(w, r, http.StatusForbidden, string(auth.ClassPermissionDenied))
		return
	}

	reference := strings.TrimPrefix(r.URL.Path, "/v1/remittances/")
	reference = strings.TrimSpace(strings.Trim(reference, "/"))
	if reference == "" || strings.Contains(reference, "/") {
		writeError(w, r, http.StatusBadRequest, "remittance reference is required")
		return
	}

	details, err := a.remittances.ByReference(r.Context(), reference, rec.ID)
	if err != nil {
		if errors.Is(err, remittance.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "remittance not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "remittance lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, details)
}
