package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const documentColumns = `id, title, content, file_type, file_name, size_bytes, source_key, is_processed, summary, audio_url, is_summarizing, summarizing_started_at, summarized_at, created_at, updated_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, in NewDocument) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	const query = `
INSERT INTO documents (
    id,
    title,
    content,
    file_type,
    file_name,
    size_bytes,
    source_key,
    is_processed,
    is_summarizing,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, FALSE, $8, $8)`

	now := time.Now().UTC()
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
	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.FileType,
		doc.FileName,
		doc.SizeBytes,
		doc.SourceKey,
		now,
	)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// GetByID fetches a document by id. Ids that are not UUIDs cannot exist.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, id))
}

// List returns all documents newest first.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// UpdateSummary stores the summary, marks the document processed and stamps summarized_at.
func (r *PGRepo) UpdateSummary(ctx context.Context, id, summary string, at time.Time) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}
	query := `
UPDATE documents
SET summary = $2, is_processed = TRUE, summarized_at = $3, updated_at = $3
WHERE id = $1
RETURNING ` + documentColumns
	return scanDocument(r.DB.QueryRowContext(ctx, query, id, summary, at))
}

// UpdateAudioURL records a pre-rendered audio asset.
func (r *PGRepo) UpdateAudioURL(ctx context.Context, id, url string, at time.Time) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}
	query := `
UPDATE documents
SET audio_url = $2, updated_at = $3
WHERE id = $1
RETURNING ` + documentColumns
	return scanDocument(r.DB.QueryRowContext(ctx, query, id, url, at))
}

// BeginSummarize takes the lease with a conditional update so concurrent
// callers cannot both win.
func (r *PGRepo) BeginSummarize(ctx context.Context, id string, at, staleBefore time.Time) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, ErrNotFound
	}
	query := `
UPDATE documents
SET is_summarizing = TRUE, summarizing_started_at = $2, updated_at = $2
WHERE id = $1
  AND (is_summarizing = FALSE OR summarizing_started_at IS NULL OR summarizing_started_at < $3)
RETURNING ` + documentColumns
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id, at, staleBefore))
	if !errors.Is(err, ErrNotFound) {
		return doc, err
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, id).Scan(&exists); err != nil {
		return Document{}, fmt.Errorf("check document: %w", err)
	}
	if !exists {
		return Document{}, ErrNotFound
	}
	return Document{}, ErrConflict
}

// EndSummarize releases the lease taken at startedAt.
func (r *PGRepo) EndSummarize(ctx context.Context, id string, startedAt time.Time) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	const query = `
UPDATE documents
SET is_summarizing = FALSE, summarizing_started_at = NULL, updated_at = $3
WHERE id = $1 AND is_summarizing = TRUE AND summarizing_started_at = $2`
	if _, err := r.DB.ExecContext(ctx, query, id, startedAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("release summarize lock: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (r *PGRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var summary sql.NullString
	var audioURL sql.NullString
	var startedAt sql.NullTime
	var summarizedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.FileType,
		&doc.FileName,
		&doc.SizeBytes,
		&doc.SourceKey,
		&doc.IsProcessed,
		&summary,
		&audioURL,
		&doc.IsSummarizing,
		&startedAt,
		&summarizedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	if summary.Valid {
		doc.Summary = &summary.String
	}
	if audioURL.Valid {
		doc.AudioURL = &audioURL.String
	}
	if startedAt.Valid {
		doc.SummarizingStartedAt = &startedAt.Time
	}
	if summarizedAt.Valid {
		doc.SummarizedAt = &summarizedAt.Time
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
