package studyset

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/kvstore"
	"github.com/verte-zerg/studydeck/internal/logging"
)

// IndexKey holds the ordered list of set ids.
const IndexKey = "sets"

// SetKey returns the key a set is stored under.
func SetKey(id string) string {
	return "set:" + id
}

// Repository stores sets one key each, plus an ordered id index. Set
// bodies are held in memory like the index, so a failed write keeps the
// set usable for the rest of the run.
type Repository struct {
	store  kvstore.KeyValueStore
	index  *kvstore.Value[[]string]
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	bodies     map[string]*kvstore.Value[Set]
	reconciled bool
}

// NewRepository loads the set index and every indexed set from st.
func NewRepository(st kvstore.KeyValueStore, logger *zap.Logger) *Repository {
	logger = logging.OrNop(logger)
	r := &Repository{
		store:  st,
		index:  kvstore.NewValue(st, IndexKey, []string{}, logger),
		logger: logger,
		now:    time.Now,
		bodies: map[string]*kvstore.Value[Set]{},
	}
	r.loadBodies()
	return r
}

func (r *Repository) loadBodies() {
	bodies := map[string]*kvstore.Value[Set]{}
	for _, id := range r.index.Get() {
		bodies[id] = kvstore.NewValue(r.store, SetKey(id), Set{}, r.logger)
	}
	r.mu.Lock()
	r.bodies = bodies
	r.mu.Unlock()
}

func (r *Repository) body(id string) (*kvstore.Value[Set], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.bodies[id]
	return v, ok
}

// List returns the stored sets in index order. Index entries whose set
// can no longer be read are skipped.
func (r *Repository) List() []Set {
	ids := r.index.Get()
	sets := make([]Set, 0, len(ids))
	for _, id := range ids {
		set, err := r.Get(id)
		if err != nil {
			r.logger.Warn("skipping unreadable set", zap.String("id", id), zap.Error(err))
			continue
		}
		sets = append(sets, set)
	}
	return sets
}

// Get returns the set with id.
func (r *Repository) Get(id string) (Set, error) {
	v, ok := r.body(id)
	if !ok {
		return Set{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	set := v.Get()
	if set.ID == "" {
		return Set{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return set, nil
}

// Save validates and stores set, assigning an id and timestamps.
// New sets are appended to the index. A failed write is logged and the
// set stays available in memory.
func (r *Repository) Save(set Set) (Set, error) {
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	now := r.now()
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = now
	}
	set.UpdatedAt = now

	r.mu.Lock()
	v, ok := r.bodies[set.ID]
	if !ok {
		v = kvstore.NewValue(r.store, SetKey(set.ID), Set{}, r.logger)
		r.bodies[set.ID] = v
	}
	r.mu.Unlock()
	v.Set(set)

	r.index.Update(func(prev []string) []string {
		for _, id := range prev {
			if id == set.ID {
				return prev
			}
		}
		next := make([]string, 0, len(prev)+1)
		next = append(next, prev...)
		return append(next, set.ID)
	})
	return set, nil
}

// Delete removes the set with id.
func (r *Repository) Delete(id string) error {
	found := false
	r.index.Update(func(prev []string) []string {
		next := make([]string, 0, len(prev))
		for _, v := range prev {
			if v == id {
				found = true
				continue
			}
			next = append(next, v)
		}
		return next
	})
	r.mu.Lock()
	delete(r.bodies, id)
	r.mu.Unlock()
	kvstore.Remove(r.store, SetKey(id), r.logger)
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Reconcile re-reads the index and the indexed sets once, for stores
// that became available after the repository was built.
func (r *Repository) Reconcile() {
	r.mu.Lock()
	reconciled := r.reconciled
	r.reconciled = true
	r.mu.Unlock()
	if reconciled {
		return
	}
	r.index.Reconcile()
	r.loadBodies()
}
