// Package journal records capture attempt transitions in a bbolt database
// so a hung or failed attempt can be reconstructed after the fact.
package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nwest/roomscan/internal/capture"
)

const bucketName = "attempts"

// Entry is one recorded coordinator transition
type Entry struct {
	AttemptID string        `json:"attempt_id"`
	Seq       uint64        `json:"seq"`
	From      capture.Phase `json:"from"`
	To        capture.Phase `json:"to"`
	Note      string        `json:"note,omitempty"`
	At        time.Time     `json:"at"`
}

// Bolt is a bbolt-backed journal. It implements capture.Recorder.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens (or creates) a journal database at path
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Record appends one transition to the journal
func (b *Bolt) Record(t capture.Transition) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("sequencing journal entry: %w", err)
		}
		entry := Entry{
			AttemptID: t.AttemptID,
			Seq:       seq,
			From:      t.From,
			To:        t.To,
			Note:      t.Note,
			At:        t.At,
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling journal entry: %w", err)
		}
		return bucket.Put(entryKey(t.AttemptID, seq), data)
	})
}

// Entries returns every recorded transition in write order
func (b *Bolt) Entries() ([]Entry, error) {
	entries, err := b.collect(nil)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Attempt returns the transitions recorded for one attempt, in order
func (b *Bolt) Attempt(attemptID string) ([]Entry, error) {
	return b.collect([]byte(attemptID + "/"))
}

func (b *Bolt) collect(prefix []byte) ([]Entry, error) {
	entries := make([]Entry, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.ForEach(func(k, v []byte) error {
			if prefix != nil && !bytes.HasPrefix(k, prefix) {
				return nil
			}
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshaling journal entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if prefix == nil {
		sortBySeq(entries)
	}
	return entries, nil
}

// sortBySeq restores write order; keys iterate sorted by attempt ID first
func sortBySeq(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Seq < entries[j].Seq
	})
}

func entryKey(attemptID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s/%016x", attemptID, seq))
}

// Close closes the journal database
func (b *Bolt) Close() error {
	return b.db.Close()
}
