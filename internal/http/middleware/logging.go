package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"markread_demo/internal/domain"
)

const (
	contextKeyOutcome        = "access.outcome"
	contextKeyNotificationID = "access.notification_id"
)

// quietPaths are polled by infrastructure and logged at debug.
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// SetOutcome tags the access log line of the current request.
func SetOutcome(c *gin.Context, outcome domain.Outcome, notificationID string) {
	c.Set(contextKeyOutcome, outcome)
	if notificationID != "" {
		c.Set(contextKeyNotificationID, notificationID)
	}
}

// ZapLogger writes one access log line per request. Requests tagged with
// SetOutcome carry the outcome and notification id, and their level follows
// the outcome rather than the status code.
func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.RequestURI()),
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		outcome, tagged := outcomeFrom(c)
		if tagged {
			fields = append(fields, zap.String("outcome", string(outcome)))
			if id := c.GetString(contextKeyNotificationID); id != "" {
				fields = append(fields, zap.String("notification_id", id))
			}
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}

		if ce := logger.Check(accessLevel(c, outcome, tagged), "request completed"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func outcomeFrom(c *gin.Context) (domain.Outcome, bool) {
	v, ok := c.Get(contextKeyOutcome)
	if !ok {
		return "", false
	}
	outcome, ok := v.(domain.Outcome)
	return outcome, ok
}

func accessLevel(c *gin.Context, outcome domain.Outcome, tagged bool) zapcore.Level {
	if len(c.Errors.ByType(gin.ErrorTypePrivate)) > 0 {
		return zapcore.ErrorLevel
	}
	if tagged {
		switch outcome {
		case domain.OutcomeUpdated:
			return zapcore.InfoLevel
		case domain.OutcomeInternalError:
			return zapcore.ErrorLevel
		default:
			return zapcore.WarnLevel
		}
	}
	status := c.Writer.Status()
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case c.Request.Method == http.MethodOptions:
		return zapcore.DebugLevel
	case status < http.StatusBadRequest && isQuiet(c.Request.URL.Path):
		return zapcore.DebugLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

func isQuiet(path string) bool {
	_, ok := quietPaths[path]
	return ok
}
