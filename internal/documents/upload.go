package documents

import (
	"fmt"
	"strings"

	"docsum-backend/internal/extract"
	"docsum-backend/internal/shared/config"
)

// Upload is one received file, validated once at the boundary.
type Upload struct {
	Data     []byte
	MimeType string
	FileName string
	Size     int64
}

// NewUpload builds an Upload, normalizing the declared MIME type against
// the file name.
func NewUpload(data []byte, declaredMime, fileName string) Upload {
	return Upload{
		Data:     data,
		MimeType: extract.NormalizeMimeType(declaredMime, fileName),
		FileName: strings.TrimSpace(fileName),
		Size:     int64(len(data)),
	}
}

// Validate checks name, type and size. maxBytes <= 0 uses the 10 MiB default.
func (u Upload) Validate(maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}
	switch {
	case u.FileName == "":
		return &InvalidUploadError{Reason: "file name is required"}
	case u.Size <= 0:
		return &InvalidUploadError{Reason: "file is empty"}
	case u.Size > maxBytes:
		return &InvalidUploadError{Reason: fmt.Sprintf("file exceeds %d bytes", maxBytes)}
	case int64(len(u.Data)) != u.Size:
		return &InvalidUploadError{Reason: "declared size does not match payload"}
	case !extract.Supported(u.MimeType):
		return &InvalidUploadError{Reason: fmt.Sprintf("unsupported file type %q", u.MimeType)}
	}
	return nil
}
