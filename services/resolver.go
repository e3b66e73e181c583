// services/resolver.go - Team context resolution
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/models"
)

// ResolverService resolves which team a request belongs to. Pre-auth requests
// resolve by subdomain; post-auth requests carry their context in the token
// claims and never hit the database here.
type ResolverService struct {
	db     *gorm.DB
	issuer *auth.TokenIssuer
}

func NewResolverService(db *gorm.DB, issuer *auth.TokenIssuer) *ResolverService {
	return &ResolverService{db: db, issuer: issuer}
}

// ResolveSubdomain looks up a live team by its normalized subdomain. Unknown
// subdomains yield a distinguished not-found, never a generic error.
func (s *ResolverService) ResolveSubdomain(raw string) (*models.Team, error) {
	sub := models.NormalizeSubdomain(raw)
	if sub == "" {
		return nil, models.ErrNotFound("team not found")
	}

	var team models.Team
	err := s.db.Scopes(database.NotDeleted).Where("subdomain = ?", sub).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("team not found")
		}
		return nil, err
	}
	return &team, nil
}

// LoginContext selects the active team context at login: the explicit
// subdomain when given, otherwise the user's default membership, otherwise no
// context at all. Global admins never get a team context.
func (s *ResolverService) LoginContext(user *models.User, subdomain string) (*models.Membership, *models.Team, error) {
	if user.IsGlobalAdmin {
		return nil, nil, nil
	}

	if subdomain != "" {
		team, err := s.ResolveSubdomain(subdomain)
		if err != nil {
			return nil, nil, err
		}
		membership, err := s.activeMembership(user.ID, team.ID)
		if err != nil {
			return nil, nil, err
		}
		return membership, team, nil
	}

	var membership models.Membership
	err := s.db.Where("user_id = ? AND is_default = ? AND is_active = ?", user.ID, true, true).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var team models.Team
	err = s.db.Scopes(database.NotDeleted).First(&team, membership.TeamID).Error
	if err != nil {
		// Default membership points at a deleted team; fall back to no context
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return &membership, &team, nil
}

// SwitchContext issues a fresh token scoped to the target subdomain's
// membership. A new token, not per-request selection, keeps the claims the
// single source of truth.
func (s *ResolverService) SwitchContext(user *models.User, subdomain string) (string, *models.Team, error) {
	team, err := s.ResolveSubdomain(subdomain)
	if err != nil {
		return "", nil, err
	}

	membership, err := s.activeMembership(user.ID, team.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Issue(user, membership, team)
	if err != nil {
		return "", nil, err
	}
	return token, team, nil
}

func (s *ResolverService) activeMembership(userID, teamID uint) (*models.Membership, error) {
	var membership models.Membership
	err := s.db.Where("user_id = ? AND team_id = ? AND is_active = ?", userID, teamID, true).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrForbidden(fmt.Sprintf("not associated with team %d", teamID))
		}
		return nil, err
	}
	return &membership, nil
}
