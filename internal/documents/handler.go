package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medidoc-backend/internal/shared/server/respond"
)

const maxUploadSize = 20 << 20 // 20MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/upload/", h.upload)
	r.GET("/documents/", h.list)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	c.Set("fileName", fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	info, err := h.Svc.Ingest(c.Request.Context(), fileHeader.Filename, contentType, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_type", ErrUnsupportedType.Error(), nil)
		case errors.Is(err, ErrEmptyUpload):
			respond.Error(c, http.StatusBadRequest, "empty_upload", ErrEmptyUpload.Error(), nil)
		case errors.Is(err, ErrExtractionFailed):
			respond.Error(c, http.StatusBadRequest, "extraction_failed", ErrExtractionFailed.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "processing_failed", "Internal server error occurred while processing the file", nil)
		}
		return
	}

	respond.OK(c, uploadResponse{
		Filename: fileHeader.Filename,
		Info:     info,
		Status:   "success",
	})
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Could not retrieve documents", nil)
		return
	}
	respond.OK(c, toListResponse(docs))
}
