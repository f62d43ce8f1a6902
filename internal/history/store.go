// Package history keeps a persistent record of war period switches.
package history

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
)

var (
	bucketRuns = []byte("runs")
	bucketMeta = []byte("meta")

	keyCurrent = []byte("current_period")
)

// Outcome summarizes how a period switch ended.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeRolledBack Outcome = "rolled_back"
	OutcomeRejected   Outcome = "rejected"
	OutcomeRestored   Outcome = "restored"
	OutcomeFailed     Outcome = "failed"
)

// Entry is one recorded period switch.
type Entry struct {
	Seq      uint64
	RunID    string
	Period   string
	Started  time.Time
	Finished time.Time
	Outcome  Outcome
	Applied  int
	Missing  int
	Failed   int
	Bytes    int64
	Error    string
	// Previous is the current period at the time the entry was recorded,
	// which is what the run's backup holds.
	Previous string
}

// Store wraps a bbolt database holding the switch history.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates the history database and ensures its buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create buckets: %w", err)
	}
	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Record appends e to the history. An applied entry becomes the current
// period; a restored entry rolls the current period back to what was
// current when the restored run started. A restore of a run that is not on
// record leaves the current period alone.
func (s *Store) Record(e Entry) (uint64, error) {
	var seq uint64
	err := s.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		n, err := b.NextSequence()
		if err != nil {
			return err
		}
		seq = n
		e.Seq = n
		meta := tx.Bucket(bucketMeta)
		if e.Outcome != OutcomeRestored {
			e.Previous = string(meta.Get(keyCurrent))
		}
		data, err := encodeEntry(&e)
		if err != nil {
			return fmt.Errorf("history: encode entry: %w", err)
		}
		if err := b.Put(seqToKey(n), data); err != nil {
			return err
		}
		switch e.Outcome {
		case OutcomeApplied:
			return meta.Put(keyCurrent, []byte(e.Period))
		case OutcomeRestored:
			run, err := findRun(b, e.RunID)
			if err != nil || run == nil {
				return err
			}
			if run.Previous == "" {
				return meta.Delete(keyCurrent)
			}
			return meta.Put(keyCurrent, []byte(run.Previous))
		}
		return nil
	})
	return seq, err
}

// findRun returns the newest non-restore entry for runID, or nil.
func findRun(b *bbolt.Bucket, runID string) (*Entry, error) {
	if runID == "" {
		return nil, nil
	}
	c := b.Cursor()
	for k, v := c.Last(); k != nil; k, v = c.Prev() {
		e, err := decodeEntry(v)
		if err != nil {
			return nil, fmt.Errorf("history: decode entry %d: %w", keyToSeq(k), err)
		}
		if e.RunID == runID && e.Outcome != OutcomeRestored {
			return e, nil
		}
	}
	return nil, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Entry, error) {
	var out []Entry
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			e, err := decodeEntry(v)
			if err != nil {
				return fmt.Errorf("history: decode entry %d: %w", keyToSeq(k), err)
			}
			out = append(out, *e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// Current returns the last successfully applied period, or "" if none.
func (s *Store) Current() (string, error) {
	var period string
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		period = string(tx.Bucket(bucketMeta).Get(keyCurrent))
		return nil
	})
	return period, err
}

func seqToKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

func keyToSeq(k []byte) uint64 {
	if len(k) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(k)
}

func encodeEntry(e *Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}
