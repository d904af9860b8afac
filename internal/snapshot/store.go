// Package snapshot persists the till's full state locally as a keyed set of
// named values, saved on a fixed interval and restored at startup.
package snapshot

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tillpos/internal/till"
)

// Entry is one named value row. Values are JSON; dates inside serialize as
// RFC 3339 strings and parse back to timestamps on load.
type Entry struct {
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// Store is the gorm-backed local snapshot.
type Store struct {
	db *gorm.DB
}

// NewStore migrates the entries table and returns the store.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// stateEntries splits the state into one row per top-level named value.
func stateEntries(state till.State) ([]Entry, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(fields))
	for k, v := range fields {
		entries = append(entries, Entry{Key: k, Value: string(v)})
	}
	return entries, nil
}

// assembleState is the inverse of stateEntries. Rows with keys the state no
// longer has are ignored, so old snapshots load after a field is dropped.
func assembleState(entries []Entry) (till.State, error) {
	var state till.State
	fields := make(map[string]json.RawMessage, len(entries))
	for _, e := range entries {
		fields[e.Key] = json.RawMessage(e.Value)
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, err
	}
	return state, nil
}

// Save upserts one row per named state value.
func (s *Store) Save(state till.State) error {
	entries, err := stateEntries(state)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entries).Error
}

// Load reassembles the state from the stored rows. ok is false when nothing
// has been saved yet.
func (s *Store) Load() (till.State, bool, error) {
	var state till.State
	var entries []Entry
	if err := s.db.Find(&entries).Error; err != nil {
		return state, false, err
	}
	if len(entries) == 0 {
		return state, false, nil
	}
	state, err := assembleState(entries)
	if err != nil {
		return state, false, err
	}
	return state, true, nil
}

// AutoSave persists the state on a fixed interval until ctx is cancelled,
// with a final save on the way out.
func (s *Store) AutoSave(ctx context.Context, interval time.Duration, source func() till.State) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.Save(source()); err != nil {
				log.Printf("snapshot: save failed: %v", err)
			}
		case <-ctx.Done():
			if err := s.Save(source()); err != nil {
				log.Printf("snapshot: final save failed: %v", err)
			}
			return
		}
	}
}
