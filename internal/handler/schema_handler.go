package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/response"
	"github.com/stemsi/reportcard-backend/internal/service"
	"github.com/stemsi/reportcard-backend/internal/validator"
)

// SchemaHandler handles marksheet schema endpoints.
type SchemaHandler struct {
	schemaService *service.SchemaService
	log           zerolog.Logger
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(schemaService *service.SchemaService, log zerolog.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		log:           log.With().Str("component", "schema_handler").Logger(),
	}
}

// ListSchemas godoc
// GET /api/v1/classes/:id/schemas
func (h *SchemaHandler) ListSchemas(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	schemas, err := h.schemaService.ListByClass(c.Request.Context(), classID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schemas": schemas})
}

// CreateSchema godoc
// POST /api/v1/classes/:id/schemas
// Rejects malformed documents and colliding input keys with 422.
func (h *SchemaHandler) CreateSchema(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.CreateSchemaRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sf, err := h.schemaService.Create(c.Request.Context(), classID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, sf)
}

// GetSchema godoc
// GET /api/v1/schemas/:id
// Returns the schema with its compiled form, initial values and rules.
func (h *SchemaHandler) GetSchema(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sf, err := h.schemaService.Load(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, sf)
}
