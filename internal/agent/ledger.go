package agent

import (
	"sync"

	"rmdesk.org/internal/intent"
)

// Ledger is the in-process conversation history. Appends are atomic; reads
// see some consistent append order.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records one entry.
func (l *Ledger) Append(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// History returns recorded entries, newest last. A non-empty customerID
// filters to that customer; limit > 0 keeps only the most recent entries.
func (l *Ledger) History(customerID string, limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Entry
	for _, e := range l.entries {
		if customerID != "" && e.CustomerID != customerID {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Stats scans the ledger and aggregates it.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := Stats{ByIntent: make(map[intent.Label]int)}
	for _, e := range l.entries {
		s.Total++
		if e.Supported {
			s.Supported++
		} else {
			s.Unsupported++
		}
		s.ByIntent[e.Intent]++
	}
	return s
}

// Reset clears the ledger and reports how many entries were dropped.
func (l *Ledger) Reset() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.entries)
	l.entries = nil
	return n
}
