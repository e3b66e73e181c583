// handlers/admin/teams.go - Global-admin-only team administration
package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"teamhq/database"
	"teamhq/middleware"
	"teamhq/models"
	"teamhq/services"
)

var teamService *services.TeamService

// Init initializes the admin handlers. Must run after database.InitDB.
func Init() {
	teamService = services.NewTeamService(database.GetDB())
}

// ListDeletedTeams shows soft-deleted teams, invisible everywhere else
// GET /api/admin/teams/deleted
func ListDeletedTeams(c *fiber.Ctx) error {
	teams, err := teamService.ListDeletedTeams(c.UserContext(), middleware.GetClaims(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "teams": teams})
}

// RecoverTeam clears the soft-delete flags after re-validating uniqueness
// POST /api/admin/teams/:id/recover
func RecoverTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c)
	if err != nil {
		return err
	}

	team, err := teamService.RecoverTeam(c.UserContext(), middleware.GetClaims(c), teamID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "team": team})
}

// PurgeTeam physically removes a team and every tenant row under it
// DELETE /api/admin/teams/:id/purge
func PurgeTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c)
	if err != nil {
		return err
	}

	if err := teamService.PurgeTeam(c.UserContext(), middleware.GetClaims(c), teamID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func idParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, models.ErrBadRequest("invalid id")
	}
	return uint(id), nil
}
