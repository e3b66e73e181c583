// services/transfer_service.go - Ownership transfer state machine
package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/models"
)

// TransferService moves team ownership between users through an emailed,
// expiring token. Pending is the only non-terminal state; completion is a
// status-guarded conditional update so two racing Complete calls can never
// both win.
type TransferService struct {
	db       *gorm.DB
	engine   auth.Engine
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
}

func NewTransferService(db *gorm.DB, notifier Notifier, ttl time.Duration) *TransferService {
	return &TransferService{
		db:       db,
		notifier: notifier,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Initiate starts a transfer. Only the current owner or a global admin may
// call. A second initiate while one is pending is rejected; the first must be
// cancelled explicitly so an already-emailed token is never silently voided.
func (s *TransferService) Initiate(ctx context.Context, claims *auth.Claims, teamID uint, newOwnerEmail string) (*models.OwnershipTransfer, error) {
	if err := s.engine.RequireTeamOwner(claims, teamID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(newOwnerEmail))
	if email == "" {
		return nil, models.ErrBadRequest("new owner email is required")
	}

	var team models.Team
	err := s.db.WithContext(ctx).Scopes(database.NotDeleted).First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("team not found")
		}
		return nil, err
	}

	now := s.now()

	// Expiry is lazy: flip stale pendings here so they stop blocking new ones
	if err := s.db.WithContext(ctx).Model(&models.OwnershipTransfer{}).
		Where("team_id = ? AND status = ? AND expires_on < ?", teamID, models.TransferStatusPending, now).
		Update("status", models.TransferStatusExpired).Error; err != nil {
		return nil, err
	}

	var pending int64
	if err := s.db.WithContext(ctx).Model(&models.OwnershipTransfer{}).
		Where("team_id = ? AND status = ?", teamID, models.TransferStatusPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, models.ErrConflict("an ownership transfer is already pending for this team")
	}

	transfer := &models.OwnershipTransfer{
		TeamID:            teamID,
		InitiatedByUserID: claims.UserID,
		NewOwnerEmail:     email,
		Token:             uuid.NewString(),
		ExpiresOn:         now.Add(s.ttl),
		Status:            models.TransferStatusPending,
	}

	if memberID, ok := s.existingMemberID(teamID, email); ok {
		transfer.ExistingMemberID = &memberID
	}

	if err := s.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return nil, err
	}

	// Fire-and-forget: delivery never blocks or fails the request
	go s.notifier.TransferInitiated(email, &team, transfer.Token)

	return transfer, nil
}

// Complete finalizes a transfer by token. The caller must be the invited new
// owner (or a global admin completing on their behalf). All sub-steps commit
// as one transaction; partial application is impossible.
func (s *TransferService) Complete(ctx context.Context, claims *auth.Claims, token string) (*models.Team, error) {
	if err := s.engine.RequireAuthenticated(claims); err != nil {
		return nil, err
	}

	var transfer models.OwnershipTransfer
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&transfer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("transfer not found")
		}
		return nil, err
	}

	now := s.now()

	if transfer.Status.Terminal() {
		return nil, models.ErrConflict("ownership transfer is no longer pending")
	}
	// Expiry wins over the physically stored pending status
	if transfer.ExpiredAt(now) {
		if err := s.db.WithContext(ctx).Model(&models.OwnershipTransfer{}).
			Where("id = ? AND status = ?", transfer.ID, models.TransferStatusPending).
			Update("status", models.TransferStatusExpired).Error; err != nil {
			log.Printf("failed to mark transfer %d expired: %v", transfer.ID, err)
		}
		return nil, models.ErrConflict("ownership transfer has expired")
	}

	if !claims.IsGlobalAdmin && !strings.EqualFold(claims.Email, transfer.NewOwnerEmail) {
		return nil, models.ErrForbidden("transfer token was not issued for this account")
	}

	newOwner, err := s.userByEmail(transfer.NewOwnerEmail)
	if err != nil {
		return nil, err
	}

	if err := s.finalize(ctx, &transfer, newOwner, claims.UserID, now); err != nil {
		return nil, err
	}

	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, transfer.TeamID).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// finalize commits the ownership swap as one transaction. The status flip is a
// conditional update guarded on pending: of two racing completions exactly one
// sees RowsAffected == 1, the other rolls back with a conflict.
func (s *TransferService) finalize(ctx context.Context, transfer *models.OwnershipTransfer, newOwner *models.User, actorID uint, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OwnershipTransfer{}).
			Where("id = ? AND status = ?", transfer.ID, models.TransferStatusPending).
			Updates(map[string]interface{}{
				"status":               models.TransferStatusCompleted,
				"completed_on":         now,
				"completed_by_user_id": actorID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrConflict("ownership transfer is no longer pending")
		}

		// Demote first so the one-active-owner constraint holds throughout
		if err := tx.Model(&models.Membership{}).
			Where("team_id = ? AND role = ? AND is_active = ?", transfer.TeamID, models.RoleOwner, true).
			Update("role", models.RoleAdmin).Error; err != nil {
			return err
		}

		var membership models.Membership
		err := tx.Where("team_id = ? AND user_id = ?", transfer.TeamID, newOwner.ID).
			First(&membership).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership = models.Membership{
				UserID:     newOwner.ID,
				TeamID:     transfer.TeamID,
				Role:       models.RoleOwner,
				MemberType: models.MemberTypeCoach,
				IsActive:   true,
				JoinedAt:   now,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&membership).
				Updates(map[string]interface{}{
					"role":      models.RoleOwner,
					"is_active": true,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Team{}).
			Where("id = ?", transfer.TeamID).
			Update("owner_id", newOwner.ID).Error
	})
}

// Cancel voids a pending transfer. Only the initiator, the current owner, or
// a global admin may cancel; terminal transfers stay as they are.
func (s *TransferService) Cancel(ctx context.Context, claims *auth.Claims, transferID uint) error {
	if err := s.engine.RequireAuthenticated(claims); err != nil {
		return err
	}

	var transfer models.OwnershipTransfer
	err := s.db.WithContext(ctx).First(&transfer, transferID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound("transfer not found")
		}
		return err
	}

	allowed := claims.IsGlobalAdmin ||
		claims.UserID == transfer.InitiatedByUserID ||
		s.engine.CanOwnTeam(claims, transfer.TeamID)
	if !allowed {
		return models.ErrForbidden("not allowed to cancel this transfer")
	}

	res := s.db.WithContext(ctx).Model(&models.OwnershipTransfer{}).
		Where("id = ? AND status = ?", transfer.ID, models.TransferStatusPending).
		Update("status", models.TransferStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrConflict("ownership transfer is no longer pending")
	}
	return nil
}

func (s *TransferService) existingMemberID(teamID uint, email string) (uint, bool) {
	var membership models.Membership
	err := s.db.
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.team_id = ? AND LOWER(users.email) = ?", teamID, email).
		First(&membership).Error
	if err != nil {
		return 0, false
	}
	return membership.ID, true
}

func (s *TransferService) userByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrConflict("new owner has no account yet")
		}
		return nil, err
	}
	return &user, nil
}
