package documents

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsum-backend/internal/extract"
	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/server/respond"
	"docsum-backend/internal/summarize"
)

// multipartOverhead leaves room for form boundaries and the title field.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/documents/upload", h.upload)
	rg.POST("/documents/:id/summarize", h.summarize)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/:id/audio-url", h.setAudioURL)
	rg.GET("/documents/:id/file", h.source)
	rg.GET("/documents/:id/summary/export", h.export)
}

func (h *Handler) maxUploadBytes() int64 {
	if h.Svc.MaxUploadBytes > 0 {
		return h.Svc.MaxUploadBytes
	}
	return config.DefaultMaxUploadBytes
}

func (h *Handler) upload(c *gin.Context) {
	maxBytes := h.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusBadRequest, "invalid_upload", "file exceeds the upload limit", gin.H{"maxBytes": maxBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_upload", "file is required", nil)
		return
	}
	if fileHeader.Size > maxBytes {
		respond.Error(c, http.StatusBadRequest, "invalid_upload", "file exceeds the upload limit", gin.H{"maxBytes": maxBytes})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_upload", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_upload", "unable to read file", nil)
		return
	}

	up := NewUpload(data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	doc, err := h.Svc.Upload(c.Request.Context(), up, c.PostForm("title"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set("documentId", doc.ID)
	if doc.IsProcessed {
		c.Set("statusTransition", "created->summarized")
	} else {
		c.Set("statusTransition", "created")
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) summarize(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	doc, err := h.Svc.Summarize(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("statusTransition", "summarized")
	respond.OK(c, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponses(docs))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) setAudioURL(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	var req audioURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	doc, err := h.Svc.SetAudioURL(c.Request.Context(), id, req.AudioURL)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) source(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	doc, rc, err := h.Svc.OpenSource(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.FileType, rc, map[string]string{
		"Content-Disposition": respond.ContentDisposition(doc.FileName),
	})
}

func (h *Handler) export(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	out, err := h.Svc.ExportSummary(c.Request.Context(), id, c.DefaultQuery("format", FormatPDF))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Attachment(c, out.FileName, out.ContentType, out.Data)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidUpload):
		respond.Error(c, http.StatusBadRequest, "invalid_upload", err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupportedFileType):
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", err.Error(), nil)
	case errors.Is(err, extract.ErrExtractionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", err.Error(), nil)
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, ErrNoSummary):
		respond.Error(c, http.StatusConflict, "no_summary", err.Error(), nil)
	case errors.Is(err, ErrNoSource):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		if _, _, ok := summarize.ErrorStatus(err); ok {
			summarize.WriteError(c, err)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
