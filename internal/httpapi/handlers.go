package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"rmdesk.org/internal/agent"
	"rmdesk.org/internal/obs"
	"rmdesk.org/internal/remittance"
	"rmdesk.org/internal/stream"
)

const serviceName = "rmdesk-api"

// ReadyProbe reports readiness; with a database configured it pings it.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options tunes the outer middleware chain.
type Options struct {
	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	RateRPS            float64
	RateBurst          int
}

// API is the HTTP layer over the desk orchestrator.
type API struct {
	mux         *http.ServeMux
	desk        *agent.Orchestrator
	events      *stream.Stream
	remittances remittance.Service
	readyProbe  ReadyProbe
	version     string
	opts        Options
}

// New wires the routes.
func New(desk *agent.Orchestrator, events *stream.Stream, remittances remittance.Service, rp ReadyProbe, version string, opts Options) *API {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.RateRPS <= 0 {
		opts.RateRPS = 20
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 40
	}
	a := &API{
		mux:         http.NewServeMux(),
		desk:        desk,
		events:      events,
		remittances: remittances,
		readyProbe:  rp,
		version:     version,
		opts:        opts,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/v1/profile", a.handleProfile)

	a.mux.HandleFunc("/v1/query", a.handleQuery)
	a.mux.HandleFunc("/v1/history", a.handleHistory)
	a.mux.HandleFunc("/v1/history/stats", a.handleHistoryStats)
	a.mux.HandleFunc("/v1/history/reset", a.handleHistoryReset)
	a.mux.HandleFunc("/v1/remittances/", a.handleRemittance)
	a.mux.HandleFunc("/v1/customers/", a.handleCustomer)

	a.mux.HandleFunc("/v1/stream", a.Stream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the mux wrapped in the middleware chain and metrics.
func (a *API) Handler() http.Handler {
	h := obs.Instrument(a.mux)
	h = RateLimit(h, a.opts.RateBurst, a.opts.RateRPS)
	h = MaxBodyBytes(h, a.opts.MaxBodyBytes)
	h = CORS(h, a.opts.CORSAllowedOrigins)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
