// handlers/resolve.go - Public pre-auth team lookup
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// ResolveTeam resolves a subdomain before authentication. Unknown subdomains
// get a plain 404; the response never reveals membership or access details.
// GET /api/resolve/:subdomain
func ResolveTeam(c *fiber.Ctx) error {
	team, err := resolverService.ResolveSubdomain(c.Params("subdomain"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team": fiber.Map{
			"id":        team.ID,
			"name":      team.Name,
			"subdomain": team.Subdomain,
			"status":    team.Status,
		},
	})
}
