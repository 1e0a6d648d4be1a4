package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"markread_demo/internal/http/dto"
	"markread_demo/internal/http/resp"
)

// ZapRecovery turns a panic into the generic 500 body. Details stay in the log.
func ZapRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("request_id", RequestIDFrom(c)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.StatusResponse{
			Success: false,
			Message: resp.MessageInternalError,
		})
	})
}
