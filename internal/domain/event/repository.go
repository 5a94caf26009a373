package event

import (
	"context"
	"time"
)

// Repository exposes read access to locally stored market events.
type Repository interface {
	// ListStartedBefore returns events starting strictly before cutoff, one per event id.
	ListStartedBefore(ctx context.Context, cutoff time.Time) ([]Event, error)
}
