// database/scopes.go - Tenant isolation as composable query decorators
package database

import "gorm.io/gorm"

// The two tenant predicates are deliberately separate scopes so each stays
// independently testable and they cannot silently diverge. Global-admin code
// paths simply do not apply them; there is no magic bypass flag.

// NotDeleted excludes soft-deleted rows.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// ForTeam restricts to rows belonging to one team.
func ForTeam(teamID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("team_id = ?", teamID)
	}
}

// TenantScope is the standard filter for every tenant-scoped read/write:
// the caller's team only, soft-deleted rows excluded. Out-of-tenant rows are
// silently absent from results, never an error.
func TenantScope(teamID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return NotDeleted(ForTeam(teamID)(db))
	}
}

// DeletedOnly is the explicit global-admin view of soft-deleted rows.
func DeletedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", true)
}
