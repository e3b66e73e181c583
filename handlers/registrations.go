// handlers/registrations.go - Tenant-scoped registration endpoints
package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"teamhq/middleware"
	"teamhq/models"
)

type RegistrationRequest struct {
	AthleteID    uint   `json:"athlete_id"`
	Season       string `json:"season"`
	ContactEmail string `json:"contact_email"`
}

// GET /api/registrations
func ListRegistrations(c *fiber.Ctx) error {
	registrations, err := rosterService.ListRegistrations(c.UserContext(), middleware.GetClaims(c), explicitTeamID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "registrations": registrations})
}

// CreateRegistration is the abuse-sensitive endpoint: counted against both
// the registration email and the team, on top of the group's IP/device gate.
// POST /api/registrations
func CreateRegistration(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)

	var req RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}

	dims := []middleware.DimensionValue{
		{Dimension: middleware.DimensionEmail, Identifier: strings.ToLower(strings.TrimSpace(req.ContactEmail))},
	}
	if claims.HasTeam() {
		dims = append(dims, middleware.DimensionValue{
			Dimension:  middleware.DimensionTeam,
			Identifier: strconv.FormatUint(uint64(claims.TeamID), 10),
		})
	}
	if err := limiter.Check(dims...); err != nil {
		return err
	}

	reg := &models.Registration{
		AthleteID:    req.AthleteID,
		Season:       req.Season,
		ContactEmail: req.ContactEmail,
	}
	reg, err := rosterService.CreateRegistration(c.UserContext(), claims, explicitTeamID(c), reg)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "registration": reg})
}
