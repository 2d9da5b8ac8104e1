package extract

import (
	"path/filepath"
	"strings"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var formats = map[string]string{
	MimePDF:  "pdf",
	MimeDOCX: "docx",
	MimeText: "txt",
}

// Supported reports whether mimeType (after normalization) has an extractor.
func Supported(mimeType string) bool {
	_, ok := formats[cleanMime(mimeType)]
	return ok
}

// Format returns the short name ("pdf", "docx", "txt") for a supported type.
func Format(mimeType string) string {
	if f, ok := formats[cleanMime(mimeType)]; ok {
		return f
	}
	return "unknown"
}

// NormalizeMimeType lowercases the declared type and strips parameters.
// Browsers often send generic types for office files, so an empty,
// application/octet-stream or application/zip declaration falls back to
// the file extension.
func NormalizeMimeType(mimeType, fileName string) string {
	clean := cleanMime(mimeType)
	switch clean {
	case "", "application/octet-stream", "application/zip", "application/x-zip-compressed":
	default:
		return clean
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	default:
		return clean
	}
}

func cleanMime(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
