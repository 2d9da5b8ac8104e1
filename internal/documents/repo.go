package documents

import (
	"context"
	"time"
)

// Repo persists documents. Every method is a single-document atomic write
// or read at the backing store's native consistency level.
type Repo interface {
	Create(ctx context.Context, doc NewDocument) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	// List returns every document, newest first.
	List(ctx context.Context) ([]Document, error)
	// UpdateSummary is the only write that sets IsProcessed. It stamps SummarizedAt.
	UpdateSummary(ctx context.Context, id, summary string, at time.Time) (Document, error)
	UpdateAudioURL(ctx context.Context, id, url string, at time.Time) (Document, error)
	// BeginSummarize takes the per-document summarize lease. A lease started
	// before staleBefore is treated as abandoned and taken over.
	BeginSummarize(ctx context.Context, id string, at, staleBefore time.Time) (Document, error)
	// EndSummarize releases the lease started at startedAt. Releasing a lease
	// that is gone or was taken over is a no-op.
	EndSummarize(ctx context.Context, id string, startedAt time.Time) error
	Ping(ctx context.Context) error
}
