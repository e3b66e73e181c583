// services/roster_service.go - Tenant-scoped roster data (athletes, registrations)
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/models"
)

// RosterService owns the tenant-scoped payload tables. Every read and write
// goes through TenantScope, so a caller can never observe rows outside their
// team — out-of-tenant rows are silently absent, not an error.
type RosterService struct {
	db     *gorm.DB
	engine auth.Engine
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{db: db}
}

// teamFor returns the tenant to operate on. Standard callers are pinned to
// their claimed team; a global admin must name the team explicitly.
func (s *RosterService) teamFor(claims *auth.Claims, explicitTeamID uint) (uint, error) {
	if claims == nil {
		return 0, models.ErrUnauthenticated("authentication required")
	}
	if claims.IsGlobalAdmin {
		if explicitTeamID == 0 {
			return 0, models.ErrBadRequest("team_id is required for global admin access")
		}
		return explicitTeamID, nil
	}
	if !claims.HasTeam() {
		return 0, models.ErrForbidden("no team context in token")
	}
	return claims.TeamID, nil
}

// ================== ATHLETES ==================

func (s *RosterService) ListAthletes(ctx context.Context, claims *auth.Claims, explicitTeamID uint) ([]models.Athlete, error) {
	teamID, err := s.teamFor(claims, explicitTeamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.RequireTeamAccess(claims, teamID, models.RoleMember); err != nil {
		return nil, err
	}

	var athletes []models.Athlete
	err = s.db.WithContext(ctx).Scopes(database.TenantScope(teamID)).
		Order("last_name ASC, first_name ASC").Find(&athletes).Error
	return athletes, err
}

func (s *RosterService) CreateAthlete(ctx context.Context, claims *auth.Claims, explicitTeamID uint, athlete *models.Athlete) (*models.Athlete, error) {
	teamID, err := s.teamFor(claims, explicitTeamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.RequireTeamAccess(claims, teamID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(athlete.FirstName) == "" || strings.TrimSpace(athlete.LastName) == "" {
		return nil, models.ErrBadRequest("athlete first and last name are required")
	}

	athlete.ID = 0
	athlete.TeamID = teamID
	athlete.SoftDelete = models.SoftDelete{}
	if err := s.db.WithContext(ctx).Create(athlete).Error; err != nil {
		return nil, err
	}
	return athlete, nil
}

func (s *RosterService) GetAthlete(ctx context.Context, claims *auth.Claims, explicitTeamID, athleteID uint) (*models.Athlete, error) {
	teamID, err := s.teamFor(claims, explicitTeamID)
	if err != nil {
		return nil, err
	}

	var athlete models.Athlete
	err = s.db.WithContext(ctx).Scopes(database.TenantScope(teamID)).
		First(&athlete, athleteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("athlete not found")
		}
		return nil, err
	}

	// Same decision point as every other check, now over the loaded resource
	if err := s.engine.RequireResourceAccess(claims, athlete, models.RoleMember); err != nil {
		return nil, err
	}
	return &athlete, nil
}

func (s *RosterService) UpdateAthlete(ctx context.Context, claims *auth.Claims, explicitTeamID, athleteID uint, firstName, lastName, notes string) (*models.Athlete, error) {
	athlete, err := s.GetAthlete(ctx, claims, explicitTeamID, athleteID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.RequireResourceAccess(claims, athlete, models.RoleAdmin); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(firstName) != "" {
		updates["first_name"] = strings.TrimSpace(firstName)
	}
	if strings.TrimSpace(lastName) != "" {
		updates["last_name"] = strings.TrimSpace(lastName)
	}
	if notes != "" {
		updates["notes"] = notes
	}
	if len(updates) == 0 {
		return nil, models.ErrBadRequest("nothing to update")
	}

	err = s.db.WithContext(ctx).Model(&models.Athlete{}).
		Scopes(database.TenantScope(athlete.TeamID)).
		Where("id = ?", athlete.ID).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return s.GetAthlete(ctx, claims, explicitTeamID, athleteID)
}

// DeleteAthlete is a standard soft delete; the row stays for recovery/audit.
func (s *RosterService) DeleteAthlete(ctx context.Context, claims *auth.Claims, explicitTeamID, athleteID uint) error {
	athlete, err := s.GetAthlete(ctx, claims, explicitTeamID, athleteID)
	if err != nil {
		return err
	}
	if err := s.engine.RequireResourceAccess(claims, athlete, models.RoleAdmin); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&models.Athlete{}).
		Scopes(database.TenantScope(athlete.TeamID)).
		Where("id = ?", athlete.ID).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_on": time.Now().UTC(),
			"deleted_by": claims.UserID,
		}).Error
}

// ================== REGISTRATIONS ==================

func (s *RosterService) ListRegistrations(ctx context.Context, claims *auth.Claims, explicitTeamID uint) ([]models.Registration, error) {
	teamID, err := s.teamFor(claims, explicitTeamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.RequireTeamAccess(claims, teamID, models.RoleMember); err != nil {
		return nil, err
	}

	var registrations []models.Registration
	err = s.db.WithContext(ctx).Scopes(database.TenantScope(teamID)).
		Preload("Athlete").Order("created_on DESC").Find(&registrations).Error
	return registrations, err
}

func (s *RosterService) CreateRegistration(ctx context.Context, claims *auth.Claims, explicitTeamID uint, reg *models.Registration) (*models.Registration, error) {
	teamID, err := s.teamFor(claims, explicitTeamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.RequireTeamAccess(claims, teamID, models.RoleMember); err != nil {
		return nil, err
	}
	if reg.AthleteID == 0 || strings.TrimSpace(reg.Season) == "" || strings.TrimSpace(reg.ContactEmail) == "" {
		return nil, models.ErrBadRequest("athlete_id, season and contact_email are required")
	}

	// The athlete must live in the same tenant; a foreign id is simply absent
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Athlete{}).
		Scopes(database.TenantScope(teamID)).
		Where("id = ?", reg.AthleteID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrNotFound("athlete not found")
	}

	reg.ID = 0
	reg.TeamID = teamID
	reg.ContactEmail = strings.ToLower(strings.TrimSpace(reg.ContactEmail))
	reg.Status = "submitted"
	reg.SoftDelete = models.SoftDelete{}
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		return nil, err
	}
	return reg, nil
}
