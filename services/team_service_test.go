package services

import (
	"context"
	"testing"
	"time"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/models"
)

func globalAdminClaims() *auth.Claims {
	return &auth.Claims{UserID: 999, Email: "root@example.com", IsGlobalAdmin: true}
}

func TestSoftDeleteFreesSubdomain(t *testing.T) {
	db := testDB(t)
	teams := NewTeamService(db)
	resolver := NewResolverService(db, nil)
	ctx := context.Background()

	first := createUser(t, db, "first@example.com")
	team := createTeam(t, db, first, "Eagles", "eagles")

	if err := teams.SoftDeleteTeam(ctx, teamClaims(first, team.ID, models.RoleOwner), team.ID); err != nil {
		t.Fatalf("SoftDeleteTeam: %v", err)
	}

	// Gone from public resolution
	_, err := resolver.ResolveSubdomain("eagles")
	if status := appStatus(t, err); status != 404 {
		t.Fatalf("deleted team resolved, status = %d", status)
	}

	// The freed subdomain can be claimed by a new team
	second := createUser(t, db, "second@example.com")
	reborn := createTeam(t, db, second, "New Eagles", "eagles")

	// The deleted row survives, visible only through the admin view
	deleted, err := teams.ListDeletedTeams(ctx, globalAdminClaims())
	if err != nil {
		t.Fatalf("ListDeletedTeams: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != team.ID {
		t.Fatalf("deleted teams = %+v, want exactly the original", deleted)
	}

	// Recovery must now collide with the team that claimed the subdomain
	_, err = teams.RecoverTeam(ctx, globalAdminClaims(), team.ID)
	if status := appStatus(t, err); status != 409 {
		t.Fatalf("recover over claimed subdomain status = %d, want 409", status)
	}

	if reborn.Subdomain != "eagles" {
		t.Fatalf("reborn subdomain = %q", reborn.Subdomain)
	}
}

func TestRecoverPreservesMembershipActivity(t *testing.T) {
	db := testDB(t)
	teams := NewTeamService(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	team := createTeam(t, db, owner, "Eagles", "eagles")

	// A member who was already inactive before the delete
	bench := createUser(t, db, "bench@example.com")
	if err := db.Create(&models.Membership{
		UserID:     bench.ID,
		TeamID:     team.ID,
		Role:       models.RoleMember,
		MemberType: models.MemberTypeAthlete,
		IsActive:   false,
		JoinedAt:   time.Now(),
	}).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	if err := teams.SoftDeleteTeam(ctx, teamClaims(owner, team.ID, models.RoleOwner), team.ID); err != nil {
		t.Fatalf("SoftDeleteTeam: %v", err)
	}
	if _, err := teams.RecoverTeam(ctx, globalAdminClaims(), team.ID); err != nil {
		t.Fatalf("RecoverTeam: %v", err)
	}

	var ownerMember, benchMember models.Membership
	if err := db.Where("team_id = ? AND user_id = ?", team.ID, owner.ID).First(&ownerMember).Error; err != nil {
		t.Fatalf("load owner membership: %v", err)
	}
	if err := db.Where("team_id = ? AND user_id = ?", team.ID, bench.ID).First(&benchMember).Error; err != nil {
		t.Fatalf("load bench membership: %v", err)
	}

	if !ownerMember.IsActive {
		t.Error("owner membership not reactivated by recovery")
	}
	if benchMember.IsActive {
		t.Error("recovery reactivated a membership that was inactive before the delete")
	}
}

func TestCreateTeamDuplicateSubdomain(t *testing.T) {
	db := testDB(t)
	teams := NewTeamService(db)
	ctx := context.Background()

	first := createUser(t, db, "first@example.com")
	createTeam(t, db, first, "Eagles", "eagles")

	second := createUser(t, db, "second@example.com")
	_, err := teams.CreateTeam(ctx, userClaims(second), "Copycats", "eagles", "", "")
	if status := appStatus(t, err); status != 409 {
		t.Fatalf("duplicate subdomain status = %d, want 409", status)
	}
}

func TestCreateTeamRejectsGlobalAdmin(t *testing.T) {
	db := testDB(t)
	teams := NewTeamService(db)

	_, err := teams.CreateTeam(context.Background(), globalAdminClaims(), "Eagles", "eagles", "", "")
	if status := appStatus(t, err); status != 403 {
		t.Fatalf("global admin create status = %d, want 403", status)
	}
}

// The partial index is the last line of defense when the uniqueness pre-check
// loses a race; the driver error must be recognizable as a conflict.
func TestUniqueViolationRecognized(t *testing.T) {
	db := testDB(t)

	createUser(t, db, "dup@example.com")
	err := db.Create(&models.User{Email: "dup@example.com", PasswordHash: "x"}).Error
	if err == nil {
		t.Fatal("duplicate email insert succeeded")
	}
	if !database.IsUniqueViolation(err) {
		t.Fatalf("duplicate email error not recognized: %v", err)
	}

	team := models.Team{Name: "A", Subdomain: "dup", Status: models.TeamStatusActive, OwnerID: 1}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("seed team: %v", err)
	}
	dup := models.Team{Name: "B", Subdomain: "dup", Status: models.TeamStatusActive, OwnerID: 2}
	err = db.Create(&dup).Error
	if err == nil {
		t.Fatal("duplicate live subdomain insert succeeded")
	}
	if !database.IsUniqueViolation(err) {
		t.Fatalf("duplicate subdomain error not recognized: %v", err)
	}
}
