package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/cache"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/response"
	"github.com/stemsi/reportcard-backend/internal/service"
	"github.com/stemsi/reportcard-backend/internal/validator"
)

const (
	keepAliveInterval = 30 * time.Second
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SubmissionHandler handles marksheet entry endpoints.
type SubmissionHandler struct {
	submissionService  *service.SubmissionService
	spreadsheetService *service.SpreadsheetService
	events             *cache.EntryEvents
	log                zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(
	submissionService *service.SubmissionService,
	spreadsheetService *service.SpreadsheetService,
	events *cache.EntryEvents,
	log zerolog.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService:  submissionService,
		spreadsheetService: spreadsheetService,
		events:             events,
		log:                log.With().Str("component", "submission_handler").Logger(),
	}
}

// Preview godoc
// POST /api/v1/schemas/:id/preview
// Returns the running tally and rule violations without saving anything.
func (h *SubmissionHandler) Preview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.SubmitMarksheetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	preview, err := h.submissionService.Preview(c.Request.Context(), id, req.Values)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// Submit godoc
// POST /api/v1/schemas/:id/submissions
// Creates the student and its mark row atomically.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.SubmitMarksheetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.submissionService.Submit(c.Request.Context(), id, req.Values)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"summary": summary})
}

// ListEntries godoc
// GET /api/v1/schemas/:id/entries?page=1&per_page=20
func (h *SubmissionHandler) ListEntries(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	entries, pagination, err := h.submissionService.ListEntries(c.Request.Context(), id, page, perPage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"entries": entries}, pagination)
}

// StreamEntries godoc
// GET /api/v1/schemas/:id/entries/stream
// Server-sent events: one "entry" event per new submission.
func (h *SubmissionHandler) StreamEntries(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	pubsub := h.events.Subscribe(reqCtx, id)
	defer pubsub.Close()
	ch := pubsub.Channel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	h.log.Debug().Int("schema_id", id).Msg("Entry stream attached")

	for {
		select {
		case <-reqCtx.Done():
			h.log.Debug().Int("schema_id", id).Msg("Entry stream detached")
			return

		case msg, open := <-ch:
			if !open {
				return
			}
			// Payload is already JSON.
			fmt.Fprintf(c.Writer, "event: entry\ndata: %s\n\n", msg.Payload)
			c.Writer.Flush()

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		}
	}
}

// DownloadMarksheet godoc
// GET /api/v1/schemas/:id/marksheet.xlsx
func (h *SubmissionHandler) DownloadMarksheet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	buf, err := h.spreadsheetService.Marksheet(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="marksheet-%d.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
