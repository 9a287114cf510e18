// Package history records completed study sessions and filters them by
// period.
package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/kvstore"
)

// StorageKey is the key the history list is stored under.
const StorageKey = "history"

// SchemaVersion is the current version of the persisted envelope.
const SchemaVersion = 1

// Entry is one completed study session.
type Entry struct {
	ID         string    `json:"id"`
	SetID      string    `json:"setId,omitempty"`
	SetTitle   string    `json:"setTitle"`
	Date       time.Time `json:"date"`
	Score      int       `json:"score"`
	Correct    int       `json:"correct,omitempty"`
	Total      int       `json:"total,omitempty"`
	DurationMs int64     `json:"durationMs,omitempty"`
}

// envelope versions the persisted list. A bare JSON array, the layout
// written before versioning, decodes into Payload with version 0.
type envelope struct {
	SchemaVersion int     `json:"schemaVersion"`
	Payload       []Entry `json:"payload"`
}

func (e *envelope) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err == nil {
		e.SchemaVersion = 0
		e.Payload = entries
		return nil
	}
	type plain envelope
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = envelope(p)
	return nil
}

// Repository stores the history list in a key-value store.
type Repository struct {
	value *kvstore.Value[envelope]
	now   func() time.Time
}

// NewRepository loads the history list from st. Lists stored without
// an envelope are rewritten in the current layout.
func NewRepository(st kvstore.KeyValueStore, logger *zap.Logger) *Repository {
	r := &Repository{
		value: kvstore.NewValue(st, StorageKey, envelope{SchemaVersion: SchemaVersion}, logger),
		now:   time.Now,
	}
	r.migrate()
	return r
}

func (r *Repository) migrate() {
	if r.value.Get().SchemaVersion == SchemaVersion {
		return
	}
	r.value.Update(func(prev envelope) envelope {
		prev.SchemaVersion = SchemaVersion
		return prev
	})
}

// Reconcile re-reads the stored list once, for stores that became
// available after the repository was built. A list found without an
// envelope is rewritten like in NewRepository.
func (r *Repository) Reconcile() {
	r.value.Reconcile()
	r.migrate()
}

// Entries returns a copy of the stored entries in insertion order.
func (r *Repository) Entries() []Entry {
	payload := r.value.Get().Payload
	out := make([]Entry, len(payload))
	copy(out, payload)
	return out
}

// Add appends e, filling a missing id or date and clamping the score.
func (r *Repository) Add(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = r.now()
	}
	e.Score = ClampScore(e.Score)
	r.value.Update(func(prev envelope) envelope {
		payload := make([]Entry, 0, len(prev.Payload)+1)
		payload = append(payload, prev.Payload...)
		payload = append(payload, e)
		return envelope{SchemaVersion: SchemaVersion, Payload: payload}
	})
	return e
}

// Delete removes the entry with id and reports whether it existed.
func (r *Repository) Delete(id string) bool {
	found := false
	r.value.Update(func(prev envelope) envelope {
		payload := make([]Entry, 0, len(prev.Payload))
		for _, e := range prev.Payload {
			if e.ID == id {
				found = true
				continue
			}
			payload = append(payload, e)
		}
		return envelope{SchemaVersion: SchemaVersion, Payload: payload}
	})
	return found
}

// Clear removes every entry.
func (r *Repository) Clear() {
	r.value.Set(envelope{SchemaVersion: SchemaVersion, Payload: []Entry{}})
}

// ClampScore bounds score to 0..100.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
