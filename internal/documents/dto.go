package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	FileType      string     `json:"fileType"`
	FileName      string     `json:"fileName,omitempty"`
	SizeBytes     int64      `json:"sizeBytes,omitempty"`
	SourceKey     string     `json:"sourceKey,omitempty"`
	IsProcessed   bool       `json:"isProcessed"`
	Summary       *string    `json:"summary,omitempty"`
	AudioURL      *string    `json:"audioUrl,omitempty"`
	IsSummarizing bool       `json:"isSummarizing"`
	SummarizedAt  *time.Time `json:"summarizedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		Title:         doc.Title,
		Content:       doc.Content,
		FileType:      doc.FileType,
		FileName:      doc.FileName,
		SizeBytes:     doc.SizeBytes,
		SourceKey:     doc.SourceKey,
		IsProcessed:   doc.IsProcessed,
		Summary:       doc.Summary,
		AudioURL:      doc.AudioURL,
		IsSummarizing: doc.IsSummarizing,
		SummarizedAt:  doc.SummarizedAt,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func toResponses(docs []Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	return out
}

type audioURLRequest struct {
	AudioURL string `json:"audioUrl"`
}
