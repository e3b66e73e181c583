// handlers/teams.go - Team CRUD endpoints
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"teamhq/middleware"
	"teamhq/models"
)

type CreateTeamRequest struct {
	Name       string            `json:"name"`
	Subdomain  string            `json:"subdomain"`
	Tier       models.TeamTier   `json:"tier,omitempty"`
	MemberType models.MemberType `json:"member_type,omitempty"`
}

type UpdateTeamRequest struct {
	Name string          `json:"name,omitempty"`
	Tier models.TeamTier `json:"tier,omitempty"`
}

// CreateTeam creates a team with the caller as its first owner
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}

	team, err := teamService.CreateTeam(c.UserContext(), middleware.GetClaims(c), req.Name, req.Subdomain, req.Tier, req.MemberType)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// GetTeam returns a team the caller can access
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	team, err := teamService.GetTeam(c.UserContext(), middleware.GetClaims(c), teamID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "team": team})
}

// UpdateTeam updates team settings (admin or above)
// PUT /api/teams/:id
func UpdateTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}

	team, err := teamService.UpdateTeam(c.UserContext(), middleware.GetClaims(c), teamID, req.Name, req.Tier)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "team": team})
}

// DeleteTeam soft deletes a team (owner only)
// DELETE /api/teams/:id
func DeleteTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := teamService.SoftDeleteTeam(c.UserContext(), middleware.GetClaims(c), teamID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
