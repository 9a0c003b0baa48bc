package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(t *testing.T, h gin.HandlerFunc, origin string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(h)
	r.POST("/avatar/generate", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/avatar/generate", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	for _, origin := range []string{"http://localhost:5173", "https://example.org"} {
		origin := origin
		t.Run(origin, func(t *testing.T) {
			t.Parallel()
			rec := preflight(t, CORS([]string{"*"}), origin)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, "*")
			}
		})
	}
}

func TestCORSRestrictedOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	h := CORS([]string{"http://localhost:5173"})

	rec := preflight(t, h, "http://localhost:5173")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: got=%q", got)
	}

	rec = preflight(t, h, "https://evil.example")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status for disallowed origin: got=%d want=%d", rec.Code, http.StatusForbidden)
	}
}
