package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func errorRouter(expose bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlerMiddleware(expose))
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.Conflict("taken")) })
	r.GET("/raw", func(c *gin.Context) { _ = c.Error(errors.New("connection refused")) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		expose bool
		path   string
		code   int
		body   string
	}{
		{"app error", false, "/app", http.StatusConflict, `{"error":"taken"}`},
		{"raw error with details", true, "/raw", http.StatusInternalServerError, `{"error":"Internal Server Error","details":"connection refused"}`},
		{"raw error hidden", false, "/raw", http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
		{"panic", false, "/panic", http.StatusInternalServerError, `{"error":"Internal Server Error","message":"An unexpected error occurred"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			errorRouter(tt.expose).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
