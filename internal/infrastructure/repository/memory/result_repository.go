package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fixture-results/internal/domain/result"
)

// ResultRepository enforces the same event_id uniqueness as the results table.
type ResultRepository struct {
	mu        sync.RWMutex
	byEventID map[string]result.Result
	failures  map[string]error
}

func NewResultRepository(existing ...result.Result) *ResultRepository {
	byEventID := make(map[string]result.Result, len(existing))
	for _, item := range existing {
		byEventID[item.EventID] = item
	}
	return &ResultRepository{
		byEventID: byEventID,
		failures:  make(map[string]error),
	}
}

// FailOn makes inserts for eventID return err.
func (r *ResultRepository) FailOn(eventID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[eventID] = err
}

func (r *ResultRepository) InsertIfAbsent(_ context.Context, item result.Result) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failures[item.EventID]; ok {
		return 0, err
	}
	if _, exists := r.byEventID[item.EventID]; exists {
		return 0, nil
	}
	r.byEventID[item.EventID] = item
	return 1, nil
}

// List returns stored results ordered by event id.
func (r *ResultRepository) List() []result.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]result.Result, 0, len(r.byEventID))
	for _, item := range r.byEventID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out
}
