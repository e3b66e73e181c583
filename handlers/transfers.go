// handlers/transfers.go - Ownership transfer endpoints
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"teamhq/middleware"
	"teamhq/models"
)

type InitiateTransferRequest struct {
	NewOwnerEmail string `json:"new_owner_email"`
}

type CompleteTransferRequest struct {
	Token string `json:"token"`
}

// InitiateTransfer starts an ownership transfer. The token travels out-of-band
// to the new owner; the response deliberately omits it.
// POST /api/teams/:id/transfers
func InitiateTransfer(c *fiber.Ctx) error {
	teamID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req InitiateTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return models.ErrBadRequest("invalid request body")
	}

	transfer, err := transferService.Initiate(c.UserContext(), middleware.GetClaims(c), teamID, req.NewOwnerEmail)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"transfer": transfer,
	})
}

// CompleteTransfer finalizes a transfer by token
// POST /api/transfers/complete
func CompleteTransfer(c *fiber.Ctx) error {
	var req CompleteTransferRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return models.ErrBadRequest("token required")
	}

	team, err := transferService.Complete(c.UserContext(), middleware.GetClaims(c), req.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "team": team})
}

// CancelTransfer voids a pending transfer
// DELETE /api/transfers/:id
func CancelTransfer(c *fiber.Ctx) error {
	transferID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := transferService.Cancel(c.UserContext(), middleware.GetClaims(c), transferID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
