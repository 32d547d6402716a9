package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/cache"
	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/service"
	ws "github.com/stemsi/reportcard-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler drives live marksheet entry over a WebSocket: every value the
// user types lands in a Redis draft and is answered with the running tally.
type WSHandler struct {
	schemaService     *service.SchemaService
	submissionService *service.SubmissionService
	drafts            *cache.DraftStore
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	schemaService *service.SchemaService,
	submissionService *service.SubmissionService,
	drafts *cache.DraftStore,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		schemaService:     schemaService,
		submissionService: submissionService,
		drafts:            drafts,
		log:               log.With().Str("component", "ws_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// entrySession is one connected marksheet being filled in.
type entrySession struct {
	conn     *websocket.Conn
	schemaID int
	draftID  string
	form     *marksheet.Form
	log      zerolog.Logger
}

// MarksheetEntryStream godoc
// WS /ws/v1/schemas/:id/entry?draft=<uuid>
// Resumes the given draft or starts a new one.
func (h *WSHandler) MarksheetEntryStream(c *gin.Context) {
	schemaID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sf, err := h.schemaService.Load(ctx, schemaID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	draftID := c.Query("draft")
	if _, err := uuid.Parse(draftID); err != nil {
		draftID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s := &entrySession{
		conn:     conn,
		schemaID: schemaID,
		draftID:  draftID,
		form:     sf.Form,
		log:      h.log.With().Int("schema_id", schemaID).Str("draft_id", draftID).Logger(),
	}
	s.log.Info().Msg("Marksheet entry connected")

	values, err := h.drafts.Get(ctx, schemaID, draftID)
	if err != nil {
		s.log.Error().Err(err).Msg("Load draft failed")
		_ = ws.WriteError(conn, "could not load draft")
		return
	}
	h.sendState(ctx, s, values)

	for {
		var msg ws.Request
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				s.log.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionSet:
			h.handleSet(ctx, s, &msg)
		case ws.ActionSubmit:
			h.handleSubmit(ctx, s)
		case ws.ActionReset:
			h.handleReset(ctx, s)
		case ws.ActionPing:
			_ = ws.WriteEvent(conn, ws.EventPong, nil)
		default:
			s.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handleSet stores one value and answers with the new state.
func (h *WSHandler) handleSet(ctx context.Context, s *entrySession, msg *ws.Request) {
	// Only keys of the form may reach Redis.
	if !s.form.HasKey(msg.Key) {
		_ = ws.WriteError(s.conn, "unknown key: "+msg.Key)
		return
	}

	values, err := h.drafts.Set(ctx, s.schemaID, s.draftID, msg.Key, msg.Value)
	if err != nil {
		s.log.Error().Err(err).Msg("Save draft value failed")
		_ = ws.WriteError(s.conn, "save failed")
		return
	}
	h.sendState(ctx, s, values)
}

// handleSubmit commits the draft as a student and mark row.
func (h *WSHandler) handleSubmit(ctx context.Context, s *entrySession) {
	values, err := h.drafts.Get(ctx, s.schemaID, s.draftID)
	if err != nil {
		s.log.Error().Err(err).Msg("Load draft failed")
		_ = ws.WriteError(s.conn, "could not load draft")
		return
	}

	summary, err := h.submissionService.Submit(ctx, s.schemaID, values)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			_ = ws.WriteEvent(s.conn, ws.EventInvalid, ws.InvalidData{Fields: ve.Fields})
			return
		}
		_ = ws.WriteError(s.conn, "submission failed, nothing was saved")
		return
	}

	if err := h.drafts.Delete(ctx, s.schemaID, s.draftID); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear submitted draft")
	}
	_ = ws.WriteEvent(s.conn, ws.EventSubmitted, summary)
	h.sendState(ctx, s, map[string]string{})
}

// handleReset discards the draft.
func (h *WSHandler) handleReset(ctx context.Context, s *entrySession) {
	if err := h.drafts.Delete(ctx, s.schemaID, s.draftID); err != nil {
		s.log.Error().Err(err).Msg("Reset draft failed")
		_ = ws.WriteError(s.conn, "reset failed")
		return
	}
	h.sendState(ctx, s, map[string]string{})
}

func (h *WSHandler) sendState(ctx context.Context, s *entrySession, draft map[string]string) {
	values := s.form.InitialValues()
	for k, v := range draft {
		if _, ok := values[k]; ok {
			values[k] = v
		}
	}

	preview, err := h.submissionService.Preview(ctx, s.schemaID, values)
	if err != nil {
		s.log.Error().Err(err).Msg("Preview failed")
		_ = ws.WriteError(s.conn, "could not compute totals")
		return
	}
	_ = ws.WriteEvent(s.conn, ws.EventState, ws.StateData{
		DraftID: s.draftID,
		Values:  values,
		Tally:   preview.Tally,
		Errors:  preview.Errors,
	})
}
