package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailWithFieldsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		FailWithFields(c, http.StatusUnprocessableEntity, ErrValidation, map[string]string{"name": "name is required"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body.Data)
	assert.Equal(t, ErrValidation, body.Error.Code)
	assert.Equal(t, "name is required", body.Error.Fields["name"])
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	r.ServeHTTP(w, req)

	assert.Len(t, w.Body.String(), 36)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, &Pagination{Page: 2, PerPage: 10, TotalItems: 21, TotalPages: 3}, NewPagination(2, 10, 21))
	assert.Equal(t, 0, NewPagination(1, 0, 5).TotalPages)
}

func TestFailWithDetail(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		FailWithDetail(c, http.StatusBadRequest, ErrInvalidBackup, "missing schools")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, GetMessage(ErrInvalidBackup)+" missing schools", body.Error.Message)
	assert.NotEmpty(t, body.Metadata.RequestID)
}
