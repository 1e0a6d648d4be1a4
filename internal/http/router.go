package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"markread_demo/internal/auth"
	"markread_demo/internal/config"
	"markread_demo/internal/http/controller"
	"markread_demo/internal/http/middleware"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, resolver auth.Resolver, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	identity := auth.Middleware(resolver, logger)

	api := router.Group("/api", middleware.CORS(cfg.CORSAllowedOrigins))
	api.POST("/mark-read", identity, handler.MarkRead)
	api.OPTIONS("/mark-read", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	router.GET("/sse/read-state", identity, handler.ReadEvents)

	return router
}
