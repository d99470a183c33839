// Package ids mints the ULID identifiers used for conversation entries.
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewAt mints a lexicographically sortable identifier carrying t as its
// timestamp. Conversation entries pass their recorded time so a plain sort
// of entry IDs reproduces ledger order, even under a fixed test clock.
func NewAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
