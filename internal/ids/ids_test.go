package ids

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewAtCarriesTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := ulid.ParseStrict(NewAt(at))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ulid.Time(id.Time()); !got.Equal(at) {
		t.Fatalf("id timestamp = %v, want %v", got, at)
	}
}

func TestNewAtSortsByClock(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := NewAt(base)
	for i := 1; i <= 5; i++ {
		next := NewAt(base.Add(time.Duration(i) * time.Millisecond))
		if next <= prev {
			t.Fatalf("ids out of order: %s then %s", prev, next)
		}
		prev = next
	}
}
