package httpapi

import (
	"net/http"
	"strings"

	"rmdesk.org/internal/agent"
)

type queryRequest struct {
	Query      string `json:"query"`
	CustomerID string `json:"customer_id,omitempty"`
	Credential string `json:"credential,omitempty"`
}

func (a *API) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, r, http.StatusBadRequest, "query is required")
		return
	}

	entry := a.desk.ProcessQuery(r.Context(), agent.Request{
		Query:        req.Query,
		CustomerID:   req.CustomerID,
		Credential:   req.Credential,
		SessionToken: bearerToken(r),
	})
	writeJSON(w, http.StatusOK, entry)
}
