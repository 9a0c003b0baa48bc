package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/ctxutil"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var seen *ctxutil.TraceData
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	assert.NotEmpty(t, seen.RequestID)
	assert.NotEmpty(t, seen.TraceID)
	assert.Equal(t, seen.RequestID, rec.Header().Get(headerRequestID))
	assert.Equal(t, seen.TraceID, rec.Header().Get(headerTraceID))
}

func TestAttachTraceContextKeepsClientIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "req-123")
	req.Header.Set(headerTraceID, "bad id with spaces")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(headerRequestID))
	assert.NotEqual(t, "bad id with spaces", rec.Header().Get(headerTraceID))
	assert.NotEmpty(t, rec.Header().Get(headerTraceID))
}

func TestClientID(t *testing.T) {
	assert.Equal(t, "abc", clientID("  abc "))
	assert.Empty(t, clientID(strings.Repeat("a", maxClientIDLen+1)))
	assert.Empty(t, clientID("a\nb"))
}

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTimeout(time.Second))

	var deadline time.Time
	var ok bool
	r.GET("/", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)

	r = gin.New()
	r.Use(RequestTimeout(0))
	r.GET("/", func(c *gin.Context) {
		_, ok = c.Request.Context().Deadline()
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m), RequestLogger(logger.Nop()))
	r.GET("/avatar/:key", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/avatar/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	var b strings.Builder
	require.NoError(t, m.WritePrometheus(&b))
	assert.Contains(t, b.String(), `avatar_api_requests_total{method="GET",route="/avatar/:key",status="404"} 1`)
	assert.Contains(t, b.String(), `avatar_api_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, b.String(), "avatar_api_inflight_requests 0")
}
