package handler

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/service"
)

// MediaHandler serves stored media.
type MediaHandler struct {
	mediaService *service.MediaService
	log          zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		log:          log.With().Str("component", "media_handler").Logger(),
	}
}

// GetMedia godoc
// GET /api/v1/media/:id
// Streams the blob with its stored MIME type.
func (h *MediaHandler) GetMedia(c *gin.Context) {
	m, err := h.mediaService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if m.FileName != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": m.FileName}))
	}
	c.Data(http.StatusOK, m.MimeType, m.Blob)
}
