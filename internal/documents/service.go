package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"docsum-backend/internal/extract"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/storage/object"
	"docsum-backend/internal/shared/telemetry"
	"docsum-backend/internal/shared/util"
	"docsum-backend/internal/summarize"
)

// DefaultLockTTL bounds how long a summarize lease is honored.
const DefaultLockTTL = 10 * time.Minute

const releaseTimeout = 5 * time.Second

// Service sequences extraction, persistence and summarization.
type Service struct {
	Repo       Repo
	Summarizer summarize.Summarizer
	// Store archives original uploads. Nil disables archiving.
	Store          object.ObjectStore
	MaxUploadBytes int64
	LockTTL        time.Duration
	// PDFFont is a TrueType font for PDF export. Nil limits PDF export to
	// text the built-in Helvetica can draw.
	PDFFont []byte
	Now     func() time.Time
}

// Upload validates, extracts and persists one file, then tries to summarize
// it. A summarization failure is logged and the unsummarized document is
// returned as a success.
func (s *Service) Upload(ctx context.Context, up Upload, titleOverride string) (Document, error) {
	logger := telemetry.FromContext(ctx)

	if err := up.Validate(s.MaxUploadBytes); err != nil {
		metrics.ObserveUpload("invalid")
		return Document{}, err
	}

	text, err := extract.Text(ctx, up.Data, up.MimeType)
	if err != nil {
		metrics.ObserveUpload("extract_failed")
		return Document{}, fmt.Errorf("extract %q: %w", up.FileName, err)
	}

	var sourceKey string
	if s.Store != nil {
		namespace := "uploads/" + util.HashBytes(up.Data)[:16]
		sourceKey, _, _, err = s.Store.Save(ctx, namespace, up.FileName, bytes.NewReader(up.Data))
		if err != nil {
			metrics.ObserveUpload("error")
			return Document{}, fmt.Errorf("archive upload: %w", err)
		}
	}

	title := strings.TrimSpace(titleOverride)
	if title == "" {
		title = up.FileName
	}
	doc, err := s.Repo.Create(ctx, NewDocument{
		Title:     title,
		Content:   text,
		FileType:  up.MimeType,
		FileName:  up.FileName,
		SizeBytes: up.Size,
		SourceKey: sourceKey,
	})
	if err != nil {
		metrics.ObserveUpload("error")
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	metrics.ObserveUpload("ok")
	logger.Info("document.created",
		zap.String("document_id", doc.ID),
		zap.String("file_type", doc.FileType),
		zap.Int64("size_bytes", doc.SizeBytes),
	)

	summarized, err := s.summarizeLocked(ctx, doc.ID, metrics.TriggerUpload)
	if err != nil {
		logger.Warn("document.summarize_on_upload_failed",
			zap.String("document_id", doc.ID),
			zap.Bool("upstream", summarize.IsUpstream(err)),
			zap.Error(err),
		)
		return doc, nil
	}
	return summarized, nil
}

// Summarize re-runs summarization for an existing document and surfaces
// any failure.
func (s *Service) Summarize(ctx context.Context, id string) (Document, error) {
	return s.summarizeLocked(ctx, id, metrics.TriggerRequest)
}

// List returns all documents newest first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	return s.Repo.List(ctx)
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return s.Repo.GetByID(ctx, id)
}

// SetAudioURL attaches a pre-rendered audio asset to a document.
func (s *Service) SetAudioURL(ctx context.Context, id, rawURL string) (Document, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Document{}, &ValidationError{Field: "audioUrl", Reason: "must be an absolute http(s) URL"}
	}
	return s.Repo.UpdateAudioURL(ctx, id, rawURL, s.now())
}

// OpenSource streams the archived original upload.
func (s *Service) OpenSource(ctx context.Context, id string) (Document, io.ReadCloser, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	if s.Store == nil || doc.SourceKey == "" {
		return Document{}, nil, ErrNoSource
	}
	rc, err := s.Store.Open(ctx, doc.SourceKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Document{}, nil, ErrNoSource
		}
		return Document{}, nil, fmt.Errorf("open source: %w", err)
	}
	return doc, rc, nil
}

func (s *Service) summarizeLocked(ctx context.Context, id, trigger string) (Document, error) {
	logger := telemetry.FromContext(ctx).With(zap.String("document_id", id), zap.String("trigger", trigger))

	startedAt := s.now()
	doc, err := s.Repo.BeginSummarize(ctx, id, startedAt, startedAt.Add(-s.lockTTL()))
	if err != nil {
		return Document{}, err
	}
	defer func() {
		// Release on a detached context so a cancelled request still frees the lease.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := s.Repo.EndSummarize(releaseCtx, id, startedAt); err != nil {
			logger.Error("document.summarize_release_failed", zap.Error(err))
		}
	}()

	summary, err := s.Summarizer.Summarize(ctx, doc.Content)
	metrics.ObserveSummarization(trigger, err)
	if err != nil {
		return Document{}, err
	}

	updated, err := s.Repo.UpdateSummary(ctx, id, summary, s.now())
	if err != nil {
		return Document{}, fmt.Errorf("store summary: %w", err)
	}
	updated.IsSummarizing = false
	updated.SummarizingStartedAt = nil
	logger.Info("document.summarized", zap.Int("summary_chars", len(summary)))
	return updated, nil
}

func (s *Service) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	// Millisecond precision round-trips through every store.
	return now().UTC().Truncate(time.Millisecond)
}

func (s *Service) lockTTL() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return DefaultLockTTL
}
