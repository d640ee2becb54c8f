package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-bill/billcore/internal/domain"
	"github.com/go-bill/billcore/pkg/web"
)

// ActorKey is the gin context key under which the operator id is stored.
const ActorKey = "actor_id"

// ActorHeader carries the authenticated operator id. Authentication itself
// is owned by the hosting service; this middleware only requires that the
// identity was attached.
const ActorHeader = "X-Actor"

// Actor extracts the operator id and rejects requests without one, since
// every posting must be attributable for audit.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.Request.Header.Get(ActorHeader)
		if actor == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(domain.ErrUnauthenticated))
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}
