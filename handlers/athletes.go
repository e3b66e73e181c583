// handlers/athletes.go - Tenant-scoped athlete endpoints
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"teamhq/middleware"
	"teamhq/models"
)

type AthleteRequest struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// GET /api/athletes
func ListAthletes(c *fiber.Ctx) error {
	athletes, err := rosterService.ListAthletes(c.UserContext(), middleware.GetClaims(c), explicitTeamID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "athletes": athletes})
}

// POST /api/athletes
func CreateAthlete(c *fiber.Ctx) error {
	var req AthleteRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}

	athlete := &models.Athlete{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	}
	athlete, err := rosterService.CreateAthlete(c.UserContext(), middleware.GetClaims(c), explicitTeamID(c), athlete)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "athlete": athlete})
}

// GET /api/athletes/:id
func GetAthlete(c *fiber.Ctx) error {
	athleteID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	athlete, err := rosterService.GetAthlete(c.UserContext(), middleware.GetClaims(c), explicitTeamID(c), athleteID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "athlete": athlete})
}

// PUT /api/athletes/:id
func UpdateAthlete(c *fiber.Ctx) error {
	athleteID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req AthleteRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}

	athlete, err := rosterService.UpdateAthlete(c.UserContext(), middleware.GetClaims(c), explicitTeamID(c), athleteID, req.FirstName, req.LastName, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "athlete": athlete})
}

// DELETE /api/athletes/:id
func DeleteAthlete(c *fiber.Ctx) error {
	athleteID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := rosterService.DeleteAthlete(c.UserContext(), middleware.GetClaims(c), explicitTeamID(c), athleteID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
