// auth/token.go - Bearer token issuing and validation
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"teamhq/models"
)

// TokenIssuer mints and validates HS256 bearer tokens embedding identity plus
// the caller's current tenant-membership claims. Switching teams means issuing
// a fresh token, never mutating an existing one.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue builds a token for the user. membership and team may be nil: a global
// admin, or a user without a selected context, gets no team claims at all.
func (i *TokenIssuer) Issue(user *models.User, membership *models.Membership, team *models.Team) (string, error) {
	now := i.now()

	claims := jwt.MapClaims{
		"sub":             strconv.FormatUint(uint64(user.ID), 10),
		"email":           user.Email,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"is_global_admin": strconv.FormatBool(user.IsGlobalAdmin),
		"iat":             now.Unix(),
		"exp":             now.Add(i.ttl).Unix(),
	}

	if membership != nil && team != nil {
		claims["team_id"] = strconv.FormatUint(uint64(membership.TeamID), 10)
		claims["team_role"] = string(membership.Role)
		claims["member_type"] = string(membership.MemberType)
		claims["team_subdomain"] = team.Subdomain
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse validates signature and expiry and returns the typed claim set.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.ErrUnauthenticated("invalid signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated("invalid or expired token")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrUnauthenticated("invalid token claims")
	}

	return FromMapClaims(mc)
}
