package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/backup"
	"github.com/stemsi/reportcard-backend/internal/marksheet"
	"github.com/stemsi/reportcard-backend/internal/repository"
	"github.com/stemsi/reportcard-backend/internal/response"
	"github.com/stemsi/reportcard-backend/internal/service"
)

// respondError maps a service error onto the response envelope. Anything
// unrecognised is a storage failure.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		ve  *service.ValidationError
		dup *marksheet.DuplicateKeyError
		doc *marksheet.DocumentError
	)

	switch {
	case errors.As(err, &ve):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, ve.Fields)
	case errors.As(err, &dup):
		response.FailWithDetail(c, http.StatusUnprocessableEntity, response.ErrDuplicateKey, dup.Error())
	case errors.As(err, &doc):
		response.FailWithDetail(c, http.StatusUnprocessableEntity, response.ErrInvalidSchema, strings.Join(doc.Problems, "; "))
	case errors.Is(err, backup.ErrFormat):
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrInvalidBackup, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrParentNotFound), errors.Is(err, repository.ErrDuplicateID):
		response.Fail(c, http.StatusConflict, response.ErrConstraintViolation)
	case errors.Is(err, service.ErrSchemaNotInClass):
		response.Fail(c, http.StatusConflict, response.ErrSchemaMismatch)
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	default:
		log.Error().Err(err).
			Str("path", c.FullPath()).
			Str("request_id", response.RequestID(c)).
			Msg("Storage operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrStorage)
	}
}

// paramID parses a positive integer path parameter, answering 400 when it
// is not one.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// pageParams reads page and per_page query parameters.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return page, perPage
}
