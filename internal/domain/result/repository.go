package result

import "context"

// Repository persists matched results.
type Repository interface {
	// InsertIfAbsent writes item unless a result for the same event already
	// exists. It returns the number of rows inserted (0 or 1); a duplicate is
	// not an error.
	InsertIfAbsent(ctx context.Context, item Result) (int64, error)
}
