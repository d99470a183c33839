package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	rec, _, ok := a.requireSession(w, r)
	if !ok {
		return
	}
	if id := strings.TrimSpace(r.URL.Query().Get("customer_id")); id != "" && id != rec.ID {
		writeError(w, r, http.StatusForbidden, "conversation history is private")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries := a.desk.History(rec.ID, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"customer_id": rec.ID,
		"count":       len(entries),
		"entries":     entries,
	})
}

func (a *API) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, a.desk.Stats())
}

func (a *API) handleHistoryReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, _, ok := a.requireSession(w, r); !ok {
		return
	}
	dropped := a.desk.ResetHistory(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"dropped": dropped})
}
