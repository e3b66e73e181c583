// handlers/handlers.go - Handler wiring
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/middleware"
	"teamhq/models"
	"teamhq/services"
)

var (
	tokenIssuer     *auth.TokenIssuer
	resolverService *services.ResolverService
	teamService     *services.TeamService
	transferService *services.TransferService
	rosterService   *services.RosterService
	limiter         *middleware.Limiter
)

// Init initializes handler dependencies. Must run after database.InitDB.
func Init(issuer *auth.TokenIssuer, l *middleware.Limiter, transfers *services.TransferService) {
	db := database.GetDB()
	tokenIssuer = issuer
	resolverService = services.NewResolverService(db, issuer)
	teamService = services.NewTeamService(db)
	transferService = transfers
	rosterService = services.NewRosterService(db)
	limiter = l
}

func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, models.ErrBadRequest("invalid " + name)
	}
	return uint(id), nil
}

// explicitTeamID reads the optional team_id query parameter global admins use
// to name a tenant; standard callers are pinned to their claims.
func explicitTeamID(c *fiber.Ctx) uint {
	id, err := strconv.ParseUint(c.Query("team_id"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
