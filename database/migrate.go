// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"gorm.io/gorm"

	"teamhq/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	log.Println("🔄 Running database migrations...")

	if err := Migrate(GetDB()); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	log.Println("✅ All migrations completed successfully")
}

// Migrate applies the schema plus the partial unique indexes AutoMigrate
// cannot express: subdomain unique among live teams only (a soft-deleted team
// frees its subdomain), exactly one active owner per team, at most one default
// membership per user.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.OwnershipTransfer{},
		&models.Athlete{},
		&models.Registration{},
	); err != nil {
		return err
	}

	for _, stmt := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_teams_subdomain_live ON teams(subdomain) WHERE is_deleted = false",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_one_owner ON memberships(team_id) WHERE role = 'owner' AND is_active = true",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_one_default ON memberships(user_id) WHERE is_default = true",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_user_team ON memberships(user_id, team_id)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_team_status ON ownership_transfers(team_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_email ON registrations(contact_email)",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
