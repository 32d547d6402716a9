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

// ClassHandler handles classes and their students.
type ClassHandler struct {
	classService   *service.ClassService
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService, studentService *service.StudentService, log zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		classService:   classService,
		studentService: studentService,
		log:            log.With().Str("component", "class_handler").Logger(),
	}
}

// ListClasses godoc
// GET /api/v1/schools/:id/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return
	}
	classes, err := h.classService.ListBySchool(c.Request.Context(), schoolID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// CreateClass godoc
// POST /api/v1/schools/:id/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	schoolID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), schoolID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// GetClass godoc
// GET /api/v1/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// SetActiveSchema godoc
// PUT /api/v1/classes/:id/active-schema
func (h *ClassHandler) SetActiveSchema(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.SetActiveSchemaRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.SetActiveSchema(c.Request.Context(), id, req.SchemaID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// ListStudents godoc
// GET /api/v1/classes/:id/students?page=1&per_page=10
func (h *ClassHandler) ListStudents(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	students, pagination, err := h.studentService.ListByClass(c.Request.Context(), id, page, perPage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}
