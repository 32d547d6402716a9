package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/model"
	"github.com/stemsi/reportcard-backend/internal/response"
	"github.com/stemsi/reportcard-backend/internal/service"
	"github.com/stemsi/reportcard-backend/internal/validator"
)

// SchoolHandler handles school endpoints.
type SchoolHandler struct {
	schoolService *service.SchoolService
	log           zerolog.Logger
}

// NewSchoolHandler creates a new SchoolHandler.
func NewSchoolHandler(schoolService *service.SchoolService, log zerolog.Logger) *SchoolHandler {
	return &SchoolHandler{
		schoolService: schoolService,
		log:           log.With().Str("component", "school_handler").Logger(),
	}
}

// ListSchools godoc
// GET /api/v1/schools
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	schools, err := h.schoolService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schools": schools})
}

// GetSchool godoc
// GET /api/v1/schools/:id
func (h *SchoolHandler) GetSchool(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	school, err := h.schoolService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"school": school})
}

// CreateSchool godoc
// POST /api/v1/schools
// Multipart form with name, address and an optional logo file.
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var req model.CreateSchoolRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var logo *service.Upload
	file, header, err := c.Request.FormFile("logo")
	switch {
	case err == nil:
		defer file.Close()
		logo = &service.Upload{FileName: header.Filename, Body: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	school, err := h.schoolService.Create(c.Request.Context(), req, logo)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"school": school})
}
