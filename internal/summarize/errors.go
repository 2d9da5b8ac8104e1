package summarize

import (
	"errors"

	"docsum-backend/internal/llm"
)

var (
	ErrEmptyContent = errors.New("content is empty")
	// ErrEmptyResponse is returned when the model answers without usable text.
	ErrEmptyResponse = llm.ErrEmptyResponse
)
