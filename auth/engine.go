// auth/engine.go - Single decision point for every access-control check
package auth

import (
	"fmt"

	"teamhq/models"
)

// Engine centralizes access-control decisions: global-admin bypass, role
// hierarchy, and resource-ownership checks. Every Require* method has a Can*
// counterpart that calls the exact same code path, so the two can never
// diverge.
type Engine struct{}

// HasMinimumRole holds iff the actual role ranks at least as privileged as the
// required one (lower rank = more privilege).
func HasMinimumRole(actual, required models.Role) bool {
	return actual.Rank() <= required.Rank()
}

// RequireAuthenticated fails with 401 when no validated claims are present.
func (Engine) RequireAuthenticated(claims *Claims) error {
	if claims == nil {
		return models.ErrUnauthenticated("authentication required")
	}
	return nil
}

// RequireTeamAccess is the core decision algorithm:
//  1. global admin: allow unconditionally
//  2. unauthenticated: 401
//  3. claimed team differs from the requested team: 403
//  4. insufficient role rank: 403
func (e Engine) RequireTeamAccess(claims *Claims, teamID uint, minRole models.Role) error {
	if claims != nil && claims.IsGlobalAdmin {
		return nil
	}
	if err := e.RequireAuthenticated(claims); err != nil {
		return err
	}
	if !claims.HasTeam() || claims.TeamID != teamID {
		return models.ErrForbidden("access denied to team")
	}
	if !HasMinimumRole(claims.TeamRole, minRole) {
		return models.ErrForbidden(fmt.Sprintf("minimum role %s required, caller has %s", minRole, claims.TeamRole))
	}
	return nil
}

func (e Engine) CanAccessTeam(claims *Claims, teamID uint, minRole models.Role) bool {
	return e.RequireTeamAccess(claims, teamID, minRole) == nil
}

// RequireResourceAccess checks any entity exposing a team id via the same
// routine as RequireTeamAccess.
func (e Engine) RequireResourceAccess(claims *Claims, resource models.TenantResource, minRole models.Role) error {
	return e.RequireTeamAccess(claims, resource.GetTeamID(), minRole)
}

func (e Engine) CanAccessResource(claims *Claims, resource models.TenantResource, minRole models.Role) bool {
	return e.RequireResourceAccess(claims, resource, minRole) == nil
}

// RequireTeamOwner is the ownership-only variant: minimum role fixed to owner.
func (e Engine) RequireTeamOwner(claims *Claims, teamID uint) error {
	return e.RequireTeamAccess(claims, teamID, models.RoleOwner)
}

func (e Engine) CanOwnTeam(claims *Claims, teamID uint) bool {
	return e.RequireTeamOwner(claims, teamID) == nil
}

// RequireGlobalAdmin gates the narrow set of platform-wide operations
// (tenant-filter bypass, recovery, permanent deletes).
func (e Engine) RequireGlobalAdmin(claims *Claims) error {
	if err := e.RequireAuthenticated(claims); err != nil {
		return err
	}
	if !claims.IsGlobalAdmin {
		return models.ErrForbidden("global administrator privileges required")
	}
	return nil
}

func (e Engine) CanGlobalAdmin(claims *Claims) bool {
	return e.RequireGlobalAdmin(claims) == nil
}
