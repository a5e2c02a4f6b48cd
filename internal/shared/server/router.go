package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"medidoc-backend/internal/documents"
	"medidoc-backend/internal/search"
	"medidoc-backend/internal/shared/config"
	"medidoc-backend/internal/shared/metrics"
	"medidoc-backend/internal/shared/server/middleware"
	"medidoc-backend/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers the router exposes.
type RouterDeps struct {
	Config           config.Config
	DocumentsHandler *documents.Handler
	SearchHandler    *search.Handler
	DBPing           func(ctx context.Context) error // nil when no database is configured
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "MediDoc API is running"})
	})
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "healthy", "database": databaseStatus(c.Request.Context(), deps.DBPing)})
	})
	r.GET("/metrics", metrics.Handler())

	deps.DocumentsHandler.RegisterRoutes(r)
	deps.SearchHandler.RegisterRoutes(r)

	return r
}

func databaseStatus(ctx context.Context, ping func(ctx context.Context) error) string {
	if ping == nil {
		return "in-memory"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := ping(pingCtx); err != nil {
		return "unreachable"
	}
	return "connected"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
