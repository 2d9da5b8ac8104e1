package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	doc Document
	seq int64
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]*memoryEntry
	seq  int64
	now  func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]*memoryEntry),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create assigns an id and stores the document unprocessed.
func (r *MemoryRepo) Create(ctx context.Context, in NewDocument) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if err := in.Validate(); err != nil {
		return Document{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	doc := Document{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		FileType:  in.FileType,
		FileName:  in.FileName,
		SizeBytes: in.SizeBytes,
		SourceKey: in.SourceKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.seq++
	r.data[doc.ID] = &memoryEntry{doc: doc, seq: r.seq}
	return doc.clone(), nil
}

// GetByID returns a document by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return e.doc.clone(), nil
}

// List returns all documents newest first. Equal timestamps keep insertion
// order reversed.
func (r *MemoryRepo) List(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	entries := make([]memoryEntry, 0, len(r.data))
	for _, e := range r.data {
		entries = append(entries, memoryEntry{doc: e.doc.clone(), seq: e.seq})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].doc.CreatedAt.Equal(entries[j].doc.CreatedAt) {
			return entries[i].doc.CreatedAt.After(entries[j].doc.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})
	docs := make([]Document, len(entries))
	for i := range entries {
		docs[i] = entries[i].doc
	}
	return docs, nil
}

// UpdateSummary stores the summary and marks the document processed.
func (r *MemoryRepo) UpdateSummary(ctx context.Context, id, summary string, at time.Time) (Document, error) {
	return r.mutate(ctx, id, func(d *Document) error {
		d.Summary = &summary
		d.IsProcessed = true
		stamp := at
		d.SummarizedAt = &stamp
		d.UpdatedAt = at
		return nil
	})
}

// UpdateAudioURL records a pre-rendered audio asset.
func (r *MemoryRepo) UpdateAudioURL(ctx context.Context, id, url string, at time.Time) (Document, error) {
	return r.mutate(ctx, id, func(d *Document) error {
		d.AudioURL = &url
		d.UpdatedAt = at
		return nil
	})
}

// BeginSummarize takes the summarize lease or returns ErrConflict.
func (r *MemoryRepo) BeginSummarize(ctx context.Context, id string, at, staleBefore time.Time) (Document, error) {
	return r.mutate(ctx, id, func(d *Document) error {
		if d.IsSummarizing && d.SummarizingStartedAt != nil && !d.SummarizingStartedAt.Before(staleBefore) {
			return ErrConflict
		}
		started := at
		d.IsSummarizing = true
		d.SummarizingStartedAt = &started
		d.UpdatedAt = at
		return nil
	})
}

// EndSummarize releases the lease taken at startedAt.
func (r *MemoryRepo) EndSummarize(ctx context.Context, id string, startedAt time.Time) error {
	_, err := r.mutate(ctx, id, func(d *Document) error {
		if !d.IsSummarizing || d.SummarizingStartedAt == nil || !d.SummarizingStartedAt.Equal(startedAt) {
			return nil
		}
		d.IsSummarizing = false
		d.SummarizingStartedAt = nil
		d.UpdatedAt = r.now()
		return nil
	})
	if err == ErrNotFound {
		return nil
	}
	return err
}

// Ping always succeeds.
func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepo) mutate(ctx context.Context, id string, fn func(*Document) error) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	next := e.doc.clone()
	if err := fn(&next); err != nil {
		return Document{}, err
	}
	e.doc = next
	return next.clone(), nil
}

var _ Repo = (*MemoryRepo)(nil)
