package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware_test_secret"

func authRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "authenticated": ok})
	})
	return r
}

func call(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, 42)
	require.NoError(t, err)
	foreign, err := utils.GenerateToken("other-secret", 42)
	require.NoError(t, err)

	r := authRouter(AuthMiddleware(testSecret))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bare token", token, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusForbidden},
		{"wrong secret", "Bearer " + foreign, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"id":42,"authenticated":true}`, w.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateToken(testSecret, 7)
	require.NoError(t, err)

	r := authRouter(OptionalAuthMiddleware(testSecret))

	w := call(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"authenticated":true}`, w.Body.String())

	for _, header := range []string{"", "Bearer nope", "Token " + token} {
		w = call(r, header)
		require.Equal(t, http.StatusOK, w.Code, header)
		assert.JSONEq(t, `{"id":0,"authenticated":false}`, w.Body.String(), header)
	}
}
