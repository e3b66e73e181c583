// auth/claims.go - Typed view over the bearer token claim set
package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"teamhq/models"
)

// Claims is the validated identity + tenant context of a request. Between
// logins it is the authoritative source of truth: no membership lookup happens
// on the hot path.
type Claims struct {
	UserID        uint
	Email         string
	FirstName     string
	LastName      string
	IsGlobalAdmin bool
	TeamID        uint // 0 means no team context
	TeamRole      models.Role
	MemberType    models.MemberType
	TeamSubdomain string
}

// HasTeam reports whether the token carries a team context. A missing team_id
// claim means "no team", never an error.
func (c *Claims) HasTeam() bool {
	return c != nil && c.TeamID != 0
}

// FromMapClaims converts raw JWT claims into the typed set. Claim values are
// strings on the wire ("true"/"false" for the admin flag, decimal ids).
func FromMapClaims(mc jwt.MapClaims) (*Claims, error) {
	sub, _ := mc["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || userID == 0 {
		return nil, models.ErrUnauthenticated("invalid token subject")
	}

	claims := &Claims{
		UserID:        uint(userID),
		Email:         stringClaim(mc, "email"),
		FirstName:     stringClaim(mc, "first_name"),
		LastName:      stringClaim(mc, "last_name"),
		IsGlobalAdmin: stringClaim(mc, "is_global_admin") == "true",
		TeamRole:      models.Role(stringClaim(mc, "team_role")),
		MemberType:    models.MemberType(stringClaim(mc, "member_type")),
		TeamSubdomain: stringClaim(mc, "team_subdomain"),
	}

	if raw := stringClaim(mc, "team_id"); raw != "" {
		teamID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, models.ErrUnauthenticated("invalid team claim")
		}
		claims.TeamID = uint(teamID)
	}

	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	val, _ := mc[key].(string)
	return val
}
