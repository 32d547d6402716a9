package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/response"
	"github.com/stemsi/reportcard-backend/internal/service"
)

// BackupHandler handles whole-database export and import.
type BackupHandler struct {
	backupService *service.BackupService
	maxBytes      int64
	log           zerolog.Logger
}

// NewBackupHandler creates a new BackupHandler accepting imports of at most
// maxBytes.
func NewBackupHandler(backupService *service.BackupService, maxBytes int64, log zerolog.Logger) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
		maxBytes:      maxBytes,
		log:           log.With().Str("component", "backup_handler").Logger(),
	}
}

// Export godoc
// GET /api/v1/backup/export
// Downloads every table as one JSON file.
func (h *BackupHandler) Export(c *gin.Context) {
	file, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", file.Data)
}

// Import godoc
// POST /api/v1/backup/import
// Accepts the export file as multipart field "file" or as the raw body.
// Existing data is replaced only if the whole file loads.
func (h *BackupHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	data, err := h.readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if len(data) == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	res, err := h.backupService.Import(c.Request.Context(), data)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *BackupHandler) readUpload(c *gin.Context) ([]byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return io.ReadAll(c.Request.Body)
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
