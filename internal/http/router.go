package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/avatar-backend/internal/http/handlers"
	httpMW "github.com/yungbote/avatar-backend/internal/http/middleware"
	"github.com/yungbote/avatar-backend/internal/http/response"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string

	AllowOrigins    []string
	MaxRequestBytes int64
	RequestTimeout  time.Duration

	// Metrics, when set, instruments requests and is served at MetricsPath.
	Metrics     *observability.Metrics
	MetricsPath string
	Tracing     bool

	InfoHandler   *httpH.InfoHandler
	AvatarHandler *httpH.AvatarHandler
	HealthHandler *httpH.HealthHandler
}

var errNotFound = errors.New("route not found")

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowOrigins))
	r.Use(httpMW.MaxBodyBytes(cfg.MaxRequestBytes))
	r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "not_found", errNotFound)
	})

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	if cfg.InfoHandler != nil {
		r.GET("/", cfg.InfoHandler.Root)
	}

	if cfg.AvatarHandler != nil {
		r.GET("/options", cfg.AvatarHandler.Options)

		avatar := r.Group("/avatar")
		{
			avatar.POST("/generate", cfg.AvatarHandler.Generate)
			avatar.GET("/random", cfg.AvatarHandler.Random)
			avatar.GET("/:key", cfg.AvatarHandler.Get)
			avatar.GET("/:key/svg", cfg.AvatarHandler.GetSVG)
		}
	}

	return r
}
