package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canchago/go-court-reservation/internal/domain/identity"
)

const actorContextKey = "actor"

// RequireIdentity reads the identity headers set by the upstream auth proxy
// and stores the actor in the request context. Requests without a user ID
// are rejected; a missing role defaults to cliente.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get("X-User-ID")
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "user identity required")
			}
			role := c.Request().Header.Get("X-User-Role")
			if role == "" {
				role = identity.RoleClient
			}
			c.Set(actorContextKey, identity.Actor{UserID: userID, Role: role})
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by RequireIdentity.
func ActorFrom(c echo.Context) identity.Actor {
	if a, ok := c.Get(actorContextKey).(identity.Actor); ok {
		return a
	}
	return identity.Actor{}
}
