package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	entries := []Entry{
		{RunID: "a", Period: "early", Started: now, Outcome: OutcomeApplied, Applied: 18},
		{RunID: "b", Period: "late", Started: now.Add(time.Minute), Outcome: OutcomeRolledBack, Failed: 1, Error: "permission denied"},
		{RunID: "c", Period: "mid", Started: now.Add(2 * time.Minute), Outcome: OutcomeApplied, Applied: 17, Missing: 1},
	}
	for i, e := range entries {
		seq, err := s.Record(e)
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if seq != uint64(i+1) {
			t.Errorf("seq = %d, want %d", seq, i+1)
		}
	}

	got, err := s.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d entries", len(got))
	}
	if got[0].RunID != "c" || got[2].RunID != "a" {
		t.Errorf("expected newest first, got %s..%s", got[0].RunID, got[2].RunID)
	}
	if got[1].Error != "permission denied" || !got[1].Started.Equal(now.Add(time.Minute)) {
		t.Errorf("entry b = %+v", got[1])
	}

	limited, _ := s.List(2)
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d", len(limited))
	}
}

func TestCurrentFollowsSuccessfulSwitches(t *testing.T) {
	s := openTestStore(t)

	if cur, _ := s.Current(); cur != "" {
		t.Errorf("empty store current = %q", cur)
	}
	s.Record(Entry{Period: "early", Outcome: OutcomeApplied})
	s.Record(Entry{Period: "late", Outcome: OutcomeRolledBack})
	s.Record(Entry{Period: "mid", Outcome: OutcomeRejected})

	cur, err := s.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur != "early" {
		t.Errorf("current = %q, want early", cur)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Record(Entry{Period: "late", Outcome: OutcomeApplied})
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if cur, _ := s.Current(); cur != "late" {
		t.Errorf("current after reopen = %q", cur)
	}
}

func TestRestoreRewindsCurrent(t *testing.T) {
	s := openTestStore(t)
	s.Record(Entry{RunID: "r1", Period: "early", Outcome: OutcomeApplied})
	s.Record(Entry{RunID: "r2", Period: "late", Outcome: OutcomeApplied})
	s.Record(Entry{RunID: "r2", Period: "late", Outcome: OutcomeRestored})

	if cur, _ := s.Current(); cur != "early" {
		t.Errorf("current after restore = %q, want early", cur)
	}

	s.Record(Entry{RunID: "r1", Period: "early", Outcome: OutcomeRestored})
	if cur, _ := s.Current(); cur != "" {
		t.Errorf("current after restoring first run = %q, want empty", cur)
	}
}

func TestRestoreOfRolledBackRunKeepsPeriod(t *testing.T) {
	s := openTestStore(t)
	s.Record(Entry{RunID: "r1", Period: "mid", Outcome: OutcomeApplied})
	s.Record(Entry{RunID: "r2", Period: "late", Outcome: OutcomeRolledBack})
	s.Record(Entry{RunID: "r2", Period: "late", Outcome: OutcomeRestored})

	if cur, _ := s.Current(); cur != "mid" {
		t.Errorf("current after restoring rolled back run = %q, want mid", cur)
	}

	s.Record(Entry{RunID: "unknown", Period: "early", Outcome: OutcomeRestored})
	if cur, _ := s.Current(); cur != "mid" {
		t.Errorf("current after restoring unrecorded run = %q, want mid", cur)
	}

	entries, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if prev := entries[len(entries)-2].Previous; prev != "mid" {
		t.Errorf("rolled back entry Previous = %q, want mid", prev)
	}
}
