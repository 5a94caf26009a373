package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-results/internal/domain/event"
)

type EventRepository struct {
	mu     sync.RWMutex
	events []event.Event
	err    error
}

func NewEventRepository(events []event.Event) *EventRepository {
	items := make([]event.Event, 0, len(events))
	items = append(items, events...)
	return &EventRepository{events: items}
}

// FailWith makes every subsequent read return err.
func (r *EventRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *EventRepository) ListStartedBefore(_ context.Context, cutoff time.Time) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}

	out := make([]event.Event, 0, len(r.events))
	for _, item := range r.events {
		if item.StartsAt.Before(cutoff) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
