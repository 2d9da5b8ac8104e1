package documents

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeSummarizer struct {
	mu      sync.Mutex
	summary string
	err     error
	calls   int
	block   chan struct{}
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func (f *fakeSummarizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestService(sum *fakeSummarizer) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	return &Service{
		Repo:           repo,
		Summarizer:     sum,
		MaxUploadBytes: 10 << 20,
		LockTTL:        time.Minute,
	}, repo
}

func mustCreate(t testing.TB, repo Repo, title, content string) Document {
	t.Helper()
	doc, err := repo.Create(context.Background(), NewDocument{
		Title:    title,
		Content:  content,
		FileType: "text/plain",
		FileName: title + ".txt",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return doc
}
