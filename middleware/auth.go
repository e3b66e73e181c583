// middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/models"
)

const localsClaims = "claims"

// AuthRequired validates the bearer token and stores the typed claim set on
// the request. It also threads the actor into the request context so the
// persistence layer can stamp audit fields.
func AuthRequired(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.ErrUnauthenticated("missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.ErrUnauthenticated("invalid authorization header format")
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			return err
		}

		c.Locals(localsClaims, claims)
		c.SetUserContext(database.WithActor(c.UserContext(), claims.UserID))
		return c.Next()
	}
}

// GetClaims returns the validated claims for the request, or nil before
// authentication. Authorization decisions treat nil as unauthenticated.
func GetClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(localsClaims).(*auth.Claims)
	return claims
}

// GlobalAdminOnly gates a route group to platform administrators.
func GlobalAdminOnly() fiber.Handler {
	var engine auth.Engine
	return func(c *fiber.Ctx) error {
		if err := engine.RequireGlobalAdmin(GetClaims(c)); err != nil {
			return err
		}
		return c.Next()
	}
}
