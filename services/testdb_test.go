package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"teamhq/auth"
	"teamhq/database"
	"teamhq/models"
)

// testDB opens a per-test in-memory database with the full schema, the partial
// unique indexes and the audit callbacks in place.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	database.RegisterAuditCallbacks(db)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func userClaims(user *models.User) *auth.Claims {
	return &auth.Claims{UserID: user.ID, Email: user.Email}
}

func teamClaims(user *models.User, teamID uint, role models.Role) *auth.Claims {
	return &auth.Claims{
		UserID:     user.ID,
		Email:      user.Email,
		TeamID:     teamID,
		TeamRole:   role,
		MemberType: models.MemberTypeCoach,
	}
}

// createTeam runs the full create path: team row plus first owner membership.
func createTeam(t *testing.T, db *gorm.DB, owner *models.User, name, subdomain string) *models.Team {
	t.Helper()
	team, err := NewTeamService(db).CreateTeam(context.Background(), userClaims(owner), name, subdomain, "", "")
	if err != nil {
		t.Fatalf("create team %s: %v", subdomain, err)
	}
	return team
}

func appStatus(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T (%v)", err, err)
	}
	return appErr.Status
}

func futureTime(d time.Duration) time.Time {
	return time.Now().Add(d)
}
