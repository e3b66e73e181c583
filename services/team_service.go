// services/team_service.go - Team lifecycle: create, update, soft delete, recover, purge
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/models"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

type TeamService struct {
	db     *gorm.DB
	engine auth.Engine
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// CreateTeam creates a team and its first owner membership in one transaction.
// Transient failures (deadlock, dropped connection) retry with bounded
// backoff; any failure rolls back fully, so no partially created team is ever
// visible.
func (s *TeamService) CreateTeam(ctx context.Context, claims *auth.Claims, name, subdomain string, tier models.TeamTier, memberType models.MemberType) (*models.Team, error) {
	if err := s.engine.RequireAuthenticated(claims); err != nil {
		return nil, err
	}
	// Global admins live outside tenants; owning a team would break that
	if claims.IsGlobalAdmin {
		return nil, models.ErrForbidden("global administrators cannot own teams")
	}

	if strings.TrimSpace(name) == "" {
		return nil, models.ErrBadRequest("team name is required")
	}
	sub := models.NormalizeSubdomain(subdomain)
	if !subdomainPattern.MatchString(sub) {
		return nil, models.ErrBadRequest("invalid subdomain")
	}
	if tier == "" {
		tier = models.TeamTierFree
	}
	if memberType == "" {
		memberType = models.MemberTypeCoach
	}

	team := &models.Team{
		Name:      strings.TrimSpace(name),
		Subdomain: sub,
		Status:    models.TeamStatusActive,
		Tier:      tier,
		OwnerID:   claims.UserID,
	}

	err := withTransientRetry(3, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Team{}).Scopes(database.NotDeleted).
				Where("subdomain = ?", sub).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return models.ErrConflict("subdomain already taken")
			}

			team.ID = 0
			if err := tx.Create(team).Error; err != nil {
				// Lost a race against the live-subdomain index after the count
				if database.IsUniqueViolation(err) {
					return models.ErrConflict("subdomain already taken")
				}
				return err
			}

			// First team becomes the user's default context
			var defaults int64
			if err := tx.Model(&models.Membership{}).
				Where("user_id = ? AND is_default = ?", claims.UserID, true).
				Count(&defaults).Error; err != nil {
				return err
			}

			member := &models.Membership{
				UserID:     claims.UserID,
				TeamID:     team.ID,
				Role:       models.RoleOwner,
				MemberType: memberType,
				IsActive:   true,
				IsDefault:  defaults == 0,
				JoinedAt:   time.Now().UTC(),
			}
			return tx.Create(member).Error
		})
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

// GetTeam returns a live team the caller can access.
func (s *TeamService) GetTeam(ctx context.Context, claims *auth.Claims, teamID uint) (*models.Team, error) {
	if err := s.engine.RequireTeamAccess(claims, teamID, models.RoleMember); err != nil {
		return nil, err
	}

	var team models.Team
	err := s.db.WithContext(ctx).Scopes(database.NotDeleted).First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("team not found")
		}
		return nil, err
	}
	return &team, nil
}

// UpdateTeam updates team settings. Admin role required.
func (s *TeamService) UpdateTeam(ctx context.Context, claims *auth.Claims, teamID uint, name string, tier models.TeamTier) (*models.Team, error) {
	if err := s.engine.RequireTeamAccess(claims, teamID, models.RoleAdmin); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(name) != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if tier != "" {
		updates["tier"] = tier
	}
	if len(updates) == 0 {
		return nil, models.ErrBadRequest("nothing to update")
	}

	res := s.db.WithContext(ctx).Model(&models.Team{}).
		Where("id = ? AND is_deleted = ?", teamID, false).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound("team not found")
	}

	return s.GetTeam(ctx, claims, teamID)
}

// SoftDeleteTeam flags the team and deactivates its memberships. The row
// stays; only the global-admin purge path removes it physically.
func (s *TeamService) SoftDeleteTeam(ctx context.Context, claims *auth.Claims, teamID uint) error {
	if err := s.engine.RequireTeamOwner(claims, teamID); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Team{}).
			Where("id = ? AND is_deleted = ?", teamID, false).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"deleted_on": now,
				"deleted_by": claims.UserID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound("team not found")
		}

		// Mark what this delete deactivates; recovery restores only these
		return tx.Model(&models.Membership{}).
			Where("team_id = ? AND is_active = ?", teamID, true).
			Updates(map[string]interface{}{
				"is_active":             false,
				"deactivated_by_delete": true,
			}).Error
	})
}

// ListDeletedTeams is the explicit global-admin view of soft-deleted rows.
func (s *TeamService) ListDeletedTeams(ctx context.Context, claims *auth.Claims) ([]models.Team, error) {
	if err := s.engine.RequireGlobalAdmin(claims); err != nil {
		return nil, err
	}

	var teams []models.Team
	err := s.db.WithContext(ctx).Scopes(database.DeletedOnly).
		Order("deleted_on DESC").Find(&teams).Error
	return teams, err
}

// RecoverTeam clears the soft-delete fields. The subdomain may have been
// claimed by another team since deletion, so uniqueness is re-validated.
func (s *TeamService) RecoverTeam(ctx context.Context, claims *auth.Claims, teamID uint) (*models.Team, error) {
	if err := s.engine.RequireGlobalAdmin(claims); err != nil {
		return nil, err
	}

	var team models.Team
	err := s.db.WithContext(ctx).Scopes(database.DeletedOnly).First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("deleted team not found")
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Team{}).Scopes(database.NotDeleted).
			Where("subdomain = ?", team.Subdomain).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrConflict("subdomain has been claimed by another team")
		}

		if err := tx.Model(&models.Team{}).Where("id = ?", team.ID).
			Updates(map[string]interface{}{
				"is_deleted": false,
				"deleted_on": nil,
				"deleted_by": nil,
			}).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return models.ErrConflict("subdomain has been claimed by another team")
			}
			return err
		}

		// Memberships already inactive before the delete stay inactive
		return tx.Model(&models.Membership{}).
			Where("team_id = ? AND deactivated_by_delete = ?", team.ID, true).
			Updates(map[string]interface{}{
				"is_active":             true,
				"deactivated_by_delete": false,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	team.IsDeleted = false
	team.DeletedOn = nil
	team.DeletedBy = nil
	return &team, nil
}

// PurgeTeam physically removes a team and all its tenant rows. Global admin
// only; this is the one true-delete path in the system.
func (s *TeamService) PurgeTeam(ctx context.Context, claims *auth.Claims, teamID uint) error {
	if err := s.engine.RequireGlobalAdmin(claims); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Athlete{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.OwnershipTransfer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Team{}, teamID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound("team not found")
		}
		return nil
	})
}
