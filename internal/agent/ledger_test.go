package agent

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"rmdesk.org/internal/intent"
)

func TestLedgerHistoryFilter(t *testing.T) {
	l := NewLedger()
	l.Append(Entry{ID: "1", CustomerID: "CUST001", Intent: intent.AccountBalance, Supported: true})
	l.Append(Entry{ID: "2", CustomerID: "CUST002", Intent: intent.GeneralBanking, Supported: true})
	l.Append(Entry{ID: "3", CustomerID: "CUST001", Intent: intent.OutOfScope})

	all := l.History("", 0)
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
	mine := l.History("CUST001", 0)
	if len(mine) != 2 || mine[0].ID != "1" || mine[1].ID != "3" {
		t.Fatalf("filtered history wrong: %+v", mine)
	}
	recent := l.History("CUST001", 1)
	if len(recent) != 1 || recent[0].ID != "3" {
		t.Fatalf("limit should keep the most recent: %+v", recent)
	}
}

func TestLedgerStatsDerivedFromEntries(t *testing.T) {
	l := NewLedger()
	l.Append(Entry{Intent: intent.AccountBalance, Supported: true})
	l.Append(Entry{Intent: intent.AccountBalance, Supported: true})
	l.Append(Entry{Intent: intent.OutOfScope})

	s := l.Stats()
	if s.Total != 3 || s.Supported != 2 || s.Unsupported != 1 {
		t.Fatalf("stats wrong: %+v", s)
	}
	if s.ByIntent[intent.AccountBalance] != 2 || s.ByIntent[intent.OutOfScope] != 1 {
		t.Fatalf("frequency wrong: %+v", s.ByIntent)
	}
	if s.Supported+s.Unsupported != s.Total {
		t.Fatalf("counts do not partition the total: %+v", s)
	}
}

func TestLedgerReset(t *testing.T) {
	l := NewLedger()
	l.Append(Entry{ID: "1"})
	l.Append(Entry{ID: "2"})
	if n := l.Reset(); n != 2 {
		t.Fatalf("reset dropped %d, want 2", n)
	}
	if s := l.Stats(); s.Total != 0 {
		t.Fatalf("ledger not empty after reset: %+v", s)
	}
	if n := l.Reset(); n != 0 {
		t.Fatalf("second reset dropped %d, want 0", n)
	}
}

func TestLedgerConcurrentAppends(t *testing.T) {
	l := NewLedger()
	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				l.Append(Entry{
					ID:        fmt.Sprintf("%d-%d", w, i),
					Intent:    intent.GeneralBanking,
					Supported: true,
					Timestamp: time.Now().UTC(),
				})
			}
		}(w)
	}
	wg.Wait()

	if s := l.Stats(); s.Total != writers*perWriter {
		t.Fatalf("total = %d, want %d (appends lost)", s.Total, writers*perWriter)
	}
}
