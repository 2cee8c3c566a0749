package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func protectedRouter(adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyAuth(adminKey))
	r.GET("/check-status", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	r := protectedRouter("admin-key")

	req := httptest.NewRequest(http.MethodGet, "/check-status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	r := protectedRouter("admin-key")

	req := httptest.NewRequest(http.MethodGet, "/check-status", nil)
	req.Header.Set("x-api-key", "guess")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyAuth_CorrectKey(t *testing.T) {
	r := protectedRouter("admin-key")

	req := httptest.NewRequest(http.MethodGet, "/check-status", nil)
	req.Header.Set("x-api-key", "admin-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestAPIKeyAuth_EmptyConfiguredKeyFailsClosed(t *testing.T) {
	r := protectedRouter("")

	req := httptest.NewRequest(http.MethodGet, "/check-status", nil)
	req.Header.Set("x-api-key", "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
