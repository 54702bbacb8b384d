package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func corsEngine(allowlist []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS(allowlist))
	engine.POST("/query", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return engine
}

func TestCORS_PreflightAnsweredWith204(t *testing.T) {
	engine := corsEngine(nil)

	req := httptest.NewRequest(http.MethodOptions, "/query", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowlistedOrigin(t *testing.T) {
	engine := corsEngine([]string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnlistedOriginGetsNoHeader(t *testing.T) {
	engine := corsEngine([]string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
