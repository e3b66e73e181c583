// models/tenant.go - The persistence contract every tenant-scoped row satisfies
package models

import "time"

// TenantResource is the capability every tenant-scoped record exposes: a team id.
// Authorization and query filtering operate over this interface, never over a
// concrete type hierarchy.
type TenantResource interface {
	GetTeamID() uint
}

// SoftDelete carries the logical-deletion fields. Rows are flagged, never
// removed, except through the explicit global-admin purge path.
type SoftDelete struct {
	IsDeleted bool       `gorm:"default:false;index" json:"-"`
	DeletedOn *time.Time `json:"-"`
	DeletedBy *uint      `json:"-"`
}

// Audit fields are stamped by the database-layer callbacks from the
// request-scoped actor, in the same transaction as the write itself.
type Audit struct {
	CreatedOn  time.Time `json:"created_on"`
	CreatedBy  uint      `json:"created_by"`
	ModifiedOn time.Time `json:"modified_on"`
	ModifiedBy uint      `json:"modified_by"`
}

// TenantModel is the embeddable base for tenant-scoped payload tables
// (athletes, registrations, ...). TeamID partitions the row; soft-delete and
// audit fields ride along.
type TenantModel struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TeamID uint `gorm:"not null;index" json:"team_id"`
	SoftDelete
	Audit
}

func (m TenantModel) GetTeamID() uint {
	return m.TeamID
}
