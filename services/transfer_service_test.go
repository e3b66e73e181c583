package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"teamhq/models"
)

func newTestTransferService(db *gorm.DB) *TransferService {
	return &TransferService{
		db:       db,
		notifier: NewLogNotifier(),
		ttl:      72 * time.Hour,
		now:      time.Now,
	}
}

func TestInitiateRejectsSecondPending(t *testing.T) {
	db := testDB(t)
	svc := newTestTransferService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")
	next := createUser(t, db, "next@example.com")

	ownerCl := teamClaims(owner, team.ID, models.RoleOwner)

	transfer, err := svc.Initiate(ctx, ownerCl, team.ID, next.Email)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if transfer.Status != models.TransferStatusPending || transfer.Token == "" {
		t.Fatalf("transfer = %+v", transfer)
	}

	// The first pending transfer must be cancelled before a new one starts
	_, err = svc.Initiate(ctx, ownerCl, team.ID, "other@example.com")
	if status := appStatus(t, err); status != 409 {
		t.Fatalf("second initiate status = %d, want 409", status)
	}
}

func TestInitiateExpiresStalePending(t *testing.T) {
	db := testDB(t)
	svc := newTestTransferService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")
	ownerCl := teamClaims(owner, team.ID, models.RoleOwner)

	base := time.Now()
	svc.now = func() time.Time { return base }

	stale, err := svc.Initiate(ctx, ownerCl, team.ID, "first@example.com")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	// Once the first is past its deadline a new transfer may start
	svc.now = func() time.Time { return base.Add(73 * time.Hour) }
	if _, err := svc.Initiate(ctx, ownerCl, team.ID, "second@example.com"); err != nil {
		t.Fatalf("Initiate after expiry: %v", err)
	}

	var reloaded models.OwnershipTransfer
	if err := db.First(&reloaded, stale.ID).Error; err != nil {
		t.Fatalf("reload stale transfer: %v", err)
	}
	if reloaded.Status != models.TransferStatusExpired {
		t.Fatalf("stale transfer status = %s, want expired", reloaded.Status)
	}
}

func TestCompleteTransfersOwnership(t *testing.T) {
	db := testDB(t)
	svc := newTestTransferService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")
	next := createUser(t, db, "next@example.com")

	transfer, err := svc.Initiate(ctx, teamClaims(owner, team.ID, models.RoleOwner), team.ID, next.Email)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	got, err := svc.Complete(ctx, userClaims(next), transfer.Token)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.OwnerID != next.ID {
		t.Fatalf("team owner = %d, want %d", got.OwnerID, next.ID)
	}

	var oldMember, newMember models.Membership
	if err := db.Where("team_id = ? AND user_id = ?", team.ID, owner.ID).First(&oldMember).Error; err != nil {
		t.Fatalf("load old owner membership: %v", err)
	}
	if err := db.Where("team_id = ? AND user_id = ?", team.ID, next.ID).First(&newMember).Error; err != nil {
		t.Fatalf("load new owner membership: %v", err)
	}
	if oldMember.Role != models.RoleAdmin {
		t.Errorf("old owner role = %s, want admin", oldMember.Role)
	}
	if newMember.Role != models.RoleOwner || !newMember.IsActive {
		t.Errorf("new owner membership = %+v", newMember)
	}

	var done models.OwnershipTransfer
	if err := db.First(&done, transfer.ID).Error; err != nil {
		t.Fatalf("reload transfer: %v", err)
	}
	if done.Status != models.TransferStatusCompleted || done.CompletedByUserID == nil || *done.CompletedByUserID != next.ID {
		t.Fatalf("completed transfer = %+v", done)
	}

	// The same token cannot complete twice
	_, err = svc.Complete(ctx, userClaims(next), transfer.Token)
	if status := appStatus(t, err); status != 409 {
		t.Fatalf("re-complete status = %d, want 409", status)
	}
}

func TestCompleteRejectsExpiredEvenWhenStoredPending(t *testing.T) {
	db := testDB(t)
	svc := newTestTransferService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")
	next := createUser(t, db, "next@example.com")

	base := time.Now()
	svc.now = func() time.Time { return base }

	transfer, err := svc.Initiate(ctx, teamClaims(owner, team.ID, models.RoleOwner), team.ID, next.Email)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	// The stored row still reads pending; the deadline has passed
	svc.now = func() time.Time { return base.Add(73 * time.Hour) }
	_, err = svc.Complete(ctx, userClaims(next), transfer.Token)
	if status := appStatus(t, err); status != 409 {
		t.Fatalf("expired complete status = %d, want 409", status)
	}

	var reloaded models.OwnershipTransfer
	if err := db.First(&reloaded, transfer.ID).Error; err != nil {
		t.Fatalf("reload transfer: %v", err)
	}
	if reloaded.Status != models.TransferStatusExpired {
		t.Fatalf("status = %s, want expired", reloaded.Status)
	}
}

func TestCompleteRejectsWrongAccount(t *testing.T) {
	db := testDB(t)
	svc := newTestTransferService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")
	next := createUser(t, db, "next@example.com")
	stranger := createUser(t, db, "stranger@example.com")

	transfer, err := svc.Initiate(ctx, teamClaims(owner, team.ID, models.RoleOwner), team.ID, next.Email)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	_, err = svc.Complete(ctx, userClaims(stranger), transfer.Token)
	if status := appStatus(t, err); status != 403 {
		t.Fatalf("wrong-account complete status = %d, want 403", status)
	}
}

// Two completions racing on the same pending snapshot: the conditional status
// flip lets exactly one through.
func TestFinalizeSingleWinner(t *testing.T) {
	db := testDB(t)
	svc := newTestTransferService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")
	next := createUser(t, db, "next@example.com")

	transfer := &models.OwnershipTransfer{
		TeamID:            team.ID,
		InitiatedByUserID: owner.ID,
		NewOwnerEmail:     next.Email,
		Token:             "token-under-contention",
		ExpiresOn:         futureTime(time.Hour),
		Status:            models.TransferStatusPending,
	}
	if err := db.Create(transfer).Error; err != nil {
		t.Fatalf("seed transfer: %v", err)
	}

	// Both callers hold the same pending snapshot, as in a lost race
	if err := svc.finalize(ctx, transfer, next, next.ID, time.Now()); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	err := svc.finalize(ctx, transfer, next, next.ID, time.Now())
	if status := appStatus(t, err); status != 409 {
		t.Fatalf("second finalize status = %d, want 409", status)
	}

	var reloaded models.Team
	if err := db.First(&reloaded, team.ID).Error; err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if reloaded.OwnerID != next.ID {
		t.Fatalf("team owner = %d, want %d", reloaded.OwnerID, next.ID)
	}
}

func TestCompleteRequiresExistingAccount(t *testing.T) {
	db := testDB(t)
	svc := newTestTransferService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")

	transfer, err := svc.Initiate(ctx, teamClaims(owner, team.ID, models.RoleOwner), team.ID, "ghost@example.com")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	_, err = svc.Complete(ctx, globalAdminClaims(), transfer.Token)
	if status := appStatus(t, err); status != 409 {
		t.Fatalf("no-account complete status = %d, want 409", status)
	}
}
