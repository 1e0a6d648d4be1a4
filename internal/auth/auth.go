// Package auth supplies the id of the user a request acts for. Handlers and
// services only see the resolved id, never how it was established.
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"markread_demo/internal/config"
)

const contextKeyUserID = "auth.user_id"

var ErrUnauthenticated = errors.New("unauthenticated")

type Resolver interface {
	UserID(r *http.Request) (int64, error)
}

// FixedResolver treats every request as coming from the same user. It stands
// in for a session or token decoder.
type FixedResolver struct {
	ID int64
}

func NewResolver(cfg *config.Config) Resolver {
	return FixedResolver{ID: cfg.AuthUserID}
}

func (f FixedResolver) UserID(*http.Request) (int64, error) {
	if f.ID <= 0 {
		return 0, ErrUnauthenticated
	}
	return f.ID, nil
}

// Middleware resolves the requesting user and stores the id on the context.
// Unresolvable requests are rejected with 401.
func Middleware(resolver Resolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolver.UserID(c.Request)
		if err != nil {
			logger.Warn("identity resolution failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized."})
			return
		}
		c.Set(contextKeyUserID, id)
		c.Next()
	}
}

// UserIDFrom returns the id stored by Middleware.
func UserIDFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
