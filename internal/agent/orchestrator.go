// Package agent sequences the query pipeline: identify the customer, resolve
// the intent, check support and permission, fulfill, and record the result in
// the conversation ledger.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rmdesk.org/internal/audit"
	"rmdesk.org/internal/auth"
	"rmdesk.org/internal/customer"
	"rmdesk.org/internal/fulfill"
	"rmdesk.org/internal/ids"
	"rmdesk.org/internal/intent"
	"rmdesk.org/internal/obs"
	"rmdesk.org/internal/stream"
)

// DefaultDeflection is the response for queries the desk cannot handle
// automatically.
const DefaultDeflection = "I apologize, but I'm unable to assist with this particular query at the moment. " +
	"As your Relationship Manager, I'll personally follow up with you to address this matter. " +
	"Please expect a call from me within the next business day to ensure we provide you with the best possible service."

const defaultDelegationTimeout = 20 * time.Second

// Request is one query submission. Identity material is optional: a session
// token takes precedence over inline credentials, and with neither the query
// runs unauthenticated (CustomerID is then filter metadata only).
type Request struct {
	Query        string
	CustomerID   string
	Credential   string
	SessionToken string
}

// Orchestrator composes the verifier, resolver and fulfiller into the
// per-request pipeline and owns the conversation ledger.
type Orchestrator struct {
	verifier   *auth.Verifier
	resolver   intent.Resolver
	fulfiller  fulfill.Fulfiller
	supported  intent.Set
	deflection string
	ledger     *Ledger
	events     *stream.Stream
	timeout    time.Duration
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSupported overrides the set of intents eligible for fulfillment.
func WithSupported(labels ...intent.Label) Option {
	return func(o *Orchestrator) { o.supported = intent.NewSet(labels...) }
}

// WithDeflection overrides the canned deflection text.
func WithDeflection(msg string) Option {
	return func(o *Orchestrator) {
		if msg != "" {
			o.deflection = msg
		}
	}
}

// WithStream publishes recorded entries to the given broadcaster.
func WithStream(s *stream.Stream) Option {
	return func(o *Orchestrator) { o.events = s }
}

// WithDelegationTimeout bounds each resolver and fulfiller call.
func WithDelegationTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.now = fn
		}
	}
}

// New wires an orchestrator. The default supported set and deflection text
// follow the desk configuration shipped with the service.
func New(verifier *auth.Verifier, resolver intent.Resolver, fulfiller fulfill.Fulfiller, opts ...Option) (*Orchestrator, error) {
	if verifier == nil {
		return nil, errors.New("agent: verifier is required")
	}
	if resolver == nil {
		return nil, errors.New("agent: intent resolver is required")
	}
	if fulfiller == nil {
		return nil, errors.New("agent: fulfiller is required")
	}
	o := &Orchestrator{
		verifier:   verifier,
		resolver:   resolver,
		fulfiller:  fulfiller,
		supported:  intent.NewSet(intent.DefaultSupported()...),
		deflection: DefaultDeflection,
		ledger:     NewLedger(),
		timeout:    defaultDelegationTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// ProcessQuery runs the pipeline once. Every call yields a well-formed Entry;
// authentication rejections are returned to the caller but not recorded in
// the ledger, while deflected and permission-denied results are.
func (o *Orchestrator) ProcessQuery(ctx context.Context, req Request) Entry {
	ts := o.now().UTC()
	entry := Entry{
		ID:        ids.NewAt(ts),
		Query:     req.Query,
		Intent:    intent.OutOfScope,
		Timestamp: ts,
	}

	// Identification.
	var identified *customer.Record
	switch {
	case req.SessionToken != "":
		rec, err := o.verifier.Sessions().Verify(ctx, req.SessionToken)
		if err != nil {
			entry.Classification = auth.ClassSessionInvalid
			entry.Response = "Your session is no longer valid. Please sign in again."
			return entry
		}
		identified = &rec
		entry.CustomerID = rec.ID
	case req.Credential != "":
		out := o.verifier.Authenticate(ctx, req.CustomerID, req.Credential)
		if !out.Authenticated {
			entry.Classification = auth.Classify(out.Err)
			entry.Response = "Authentication failed. Please verify your customer ID and credential."
			return entry
		}
		identified = out.Customer
		entry.CustomerID = out.Customer.ID
	default:
		entry.CustomerID = req.CustomerID
	}
	if identified != nil {
		ctx = auth.ContextWithCustomer(ctx, identified.ID)
	}

	// Intent resolution. Resolver failures degrade to out-of-scope.
	entry.Intent = o.resolveIntent(ctx, req.Query)
	entry.Supported = o.supported.Contains(entry.Intent)

	if !entry.Supported {
		entry.Response = o.deflection
		o.record(ctx, entry)
		return entry
	}

	// Permission check, only with an authenticated identity.
	if identified != nil && !auth.Allowed(identified.Tier, entry.Intent) {
		entry.Classification = auth.ClassPermissionDenied
		entry.Response = fmt.Sprintf(
			"Your %s tier does not include %s services. Your Relationship Manager can discuss an upgrade with you.",
			identified.Tier, entry.Intent)
		o.record(ctx, entry)
		return entry
	}

	// Fulfillment. Failures are absorbed into the deflection response.
	response, err := o.fulfillQuery(ctx, req.Query, entry.Intent, entry.CustomerID)
	if err != nil {
		entry.Classification = auth.ClassFulfillmentFailure
		entry.Response = o.deflection
		o.record(ctx, entry)
		return entry
	}
	entry.Response = response
	o.record(ctx, entry)
	return entry
}

func (o *Orchestrator) resolveIntent(ctx context.Context, query string) intent.Label {
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	label, err := o.resolver.Classify(cctx, query)
	if err != nil || !label.Known() {
		return intent.OutOfScope
	}
	return label
}

func (o *Orchestrator) fulfillQuery(ctx context.Context, query string, label intent.Label, customerID string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.fulfiller.Fulfill(cctx, fulfill.Request{
		Query:      query,
		Intent:     label,
		CustomerID: customerID,
	})
}

func (o *Orchestrator) record(ctx context.Context, entry Entry) {
	o.ledger.Append(entry)
	obs.ObserveQuery(string(entry.Intent), entry.Supported)
	audit.LogEvent(ctx, "query.processed", map[string]any{
		"entry_id":  entry.ID,
		"intent":    string(entry.Intent),
		"supported": entry.Supported,
		"error":     string(entry.Classification),
	})
	if o.events != nil {
		o.events.Publish(stream.QueryEvent{
			EntryID:    entry.ID,
			CustomerID: entry.CustomerID,
			Intent:     string(entry.Intent),
			Supported:  entry.Supported,
			Error:      string(entry.Classification),
			Timestamp:  entry.Timestamp,
		})
	}
}

// Authenticate is a pass-through to the verifier.
func (o *Orchestrator) Authenticate(ctx context.Context, customerID, credential string) auth.Outcome {
	out := o.verifier.Authenticate(ctx, customerID, credential)
	if out.Authenticated {
		audit.LogEvent(ctx, "auth.login.success", map[string]any{"customer_id": customerID})
	} else {
		audit.LogEvent(ctx, "auth.login.failure", map[string]any{
			"customer_id": customerID,
			"error":       string(auth.Classify(out.Err)),
		})
	}
	return out
}

// Logout revokes the session token.
func (o *Orchestrator) Logout(ctx context.Context, token string) bool {
	revoked := o.verifier.Logout(token)
	audit.LogEvent(ctx, "auth.logout", map[string]any{"revoked": revoked})
	return revoked
}

// Profile resolves a session token to the current customer record.
func (o *Orchestrator) Profile(ctx context.Context, token string) (customer.Record, error) {
	return o.verifier.Sessions().Verify(ctx, token)
}

// UpdateProfile applies contact-field changes for the session's customer.
// Tier and status are not self-service; those fields reject here.
func (o *Orchestrator) UpdateProfile(ctx context.Context, token string, upd customer.ProfileUpdate) (customer.Record, error) {
	rec, err := o.verifier.Sessions().Verify(ctx, token)
	if err != nil {
		return customer.Record{}, err
	}
	if upd.Tier != nil || upd.Status != nil {
		return customer.Record{}, fmt.Errorf("%w: tier and status changes require a relationship manager", customer.ErrInvalidInput)
	}
	ctx = auth.ContextWithCustomer(ctx, rec.ID)
	updated, err := o.verifier.Directory().Update(ctx, rec.ID, upd)
	if err != nil {
		return customer.Record{}, err
	}
	audit.LogEvent(ctx, "profile.updated", map[string]any{
		"name_changed":  upd.Name != nil,
		"email_changed": upd.Email != nil,
		"phone_changed": upd.Phone != nil,
	})
	return updated, nil
}

// History returns recorded entries, optionally filtered by customer.
func (o *Orchestrator) History(customerID string, limit int) []Entry {
	return o.ledger.History(customerID, limit)
}

// Stats aggregates the ledger.
func (o *Orchestrator) Stats() Stats {
	return o.ledger.Stats()
}

// ResetHistory clears the ledger and reports how many entries were dropped.
func (o *Orchestrator) ResetHistory(ctx context.Context) int {
	n := o.ledger.Reset()
	audit.LogEvent(ctx, "history.reset", map[string]any{"dropped": n})
	return n
}
