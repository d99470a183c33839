package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"rmdesk.org/internal/customer"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// extractBearerToken pulls the token out of an Authorization header.
func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

// requireSession resolves the bearer session on the request. On failure it
// writes the 401 and reports ok=false.
func (a *API) requireSession(w http.ResponseWriter, r *http.Request) (customer.Record, string, bool) {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return customer.Record{}, "", false
	}
	rec, err := a.desk.Profile(r.Context(), token)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid or expired session")
		return customer.Record{}, "", false
	}
	return rec, token, true
}

// bearerToken returns the session token when present, without enforcing it.
func bearerToken(r *http.Request) string {
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return ""
	}
	return token
}
