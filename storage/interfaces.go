package storage

import (
	"context"

	"github.com/worklens/worklens/core"
)

// ResultRepository provides operations for persisting classified events.
// Implementations must be thread-safe and support concurrent access.
type ResultRepository interface {
	// AddResults stores one or more classification results.
	// Result IDs derive from the event identity (core.ResultID), so
	// re-adding a result for the same event occurrence overwrites the
	// previous record. Sets InsertedAt and returns the stored results.
	AddResults(ctx context.Context, results ...*core.Result) ([]*core.Result, error)

	// GetResult retrieves a single result by ID.
	// Returns ErrNotFound if the result doesn't exist.
	GetResult(ctx context.Context, id core.ID) (*core.Result, error)

	// ListResults retrieves up to limit results ordered by insertion time
	// descending. A non-positive limit returns everything.
	ListResults(ctx context.Context, limit int) ([]*core.Result, error)

	// GetResultsByProject retrieves all results whose prediction names the
	// given project, via the project secondary index.
	GetResultsByProject(ctx context.Context, project string) ([]*core.Result, error)

	// Close closes the repository and releases resources.
	Close() error
}
