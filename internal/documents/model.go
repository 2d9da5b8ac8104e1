package documents

import (
	"strings"
	"time"
)

// Document is one uploaded file with its extracted text and, once
// available, its summary.
type Document struct {
	ID       string
	Title    string
	Content  string
	FileType string

	FileName  string
	SizeBytes int64
	SourceKey string

	IsProcessed  bool
	Summary      *string
	AudioURL     *string
	SummarizedAt *time.Time

	IsSummarizing        bool
	SummarizingStartedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDocument carries the fields a caller may set on creation.
type NewDocument struct {
	Title     string
	Content   string
	FileType  string
	FileName  string
	SizeBytes int64
	SourceKey string
}

// Validate enforces the required creation fields.
func (n NewDocument) Validate() error {
	switch {
	case strings.TrimSpace(n.Title) == "":
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	case n.Content == "":
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	case strings.TrimSpace(n.FileType) == "":
		return &ValidationError{Field: "fileType", Reason: "must not be empty"}
	case n.SizeBytes < 0:
		return &ValidationError{Field: "sizeBytes", Reason: "must not be negative"}
	}
	return nil
}

// clone returns a copy that shares no pointers with d.
func (d Document) clone() Document {
	out := d
	out.Summary = copyString(d.Summary)
	out.AudioURL = copyString(d.AudioURL)
	out.SummarizedAt = copyTime(d.SummarizedAt)
	out.SummarizingStartedAt = copyTime(d.SummarizingStartedAt)
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
