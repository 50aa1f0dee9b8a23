package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campusops/faculty-workload-api/pkg/errors"
	"github.com/campusops/faculty-workload-api/pkg/middleware/requestid"
)

func TestJSONEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestid.Middleware())
	r.GET("/thing", func(c *gin.Context) {
		JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/thing", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "req-123", envelope.RequestID)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestErrorCarriesCodeAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestid.Middleware())
	r.GET("/thing", func(c *gin.Context) {
		Error(c, appErrors.Clone(appErrors.ErrNotFound, "thing not found"))
	})

	req := httptest.NewRequest(http.MethodGet, "/thing", nil)
	req.Header.Set("X-Request-ID", "req-456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
	assert.Equal(t, "req-456", envelope.RequestID)
}
