package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowboard/flowboard-api/pkg/apperror"
)

func record(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := record(func(c *gin.Context) {
		c.Set("request_id", "req-1")
		Success(c, http.StatusCreated, gin.H{"name": "alpha"}, "created", gin.H{"total": 1})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, "alpha", body["data"].(map[string]any)["name"])
	assert.Equal(t, float64(1), body["meta"].(map[string]any)["total"])
}

func TestFromError(t *testing.T) {
	t.Run("typed errors keep their status and code", func(t *testing.T) {
		rec := record(func(c *gin.Context) {
			FromError(c, apperror.Forbidden(apperror.CodeAdminRequired, "Access denied: Admin role required"))
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, apperror.CodeAdminRequired, body["code"])
		assert.Equal(t, "Access denied: Admin role required", body["message"])
	})

	t.Run("wrapped typed errors unwrap", func(t *testing.T) {
		wrapped := errors.Join(errors.New("context"), apperror.NotFound(apperror.CodeCardNotFound, "Card not found"))
		rec := record(func(c *gin.Context) { FromError(c, wrapped) })

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperror.CodeCardNotFound, decode(t, rec)["code"])
	})

	t.Run("unknown errors become a generic 500", func(t *testing.T) {
		rec := record(func(c *gin.Context) { FromError(c, errors.New("db exploded")) })

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.NotContains(t, rec.Body.String(), "db exploded")
	})
}
