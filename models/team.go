// models/team.go
package models

import "strings"

type TeamStatus string

const (
	TeamStatusActive       TeamStatus = "active"
	TeamStatusSuspended    TeamStatus = "suspended"
	TeamStatusExpired      TeamStatus = "expired"
	TeamStatusPendingSetup TeamStatus = "pending_setup"
)

type TeamTier string

const (
	TeamTierFree     TeamTier = "free"
	TeamTierStandard TeamTier = "standard"
	TeamTierPremium  TeamTier = "premium"
)

type Team struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null;size:100" json:"name"`
	Subdomain string     `gorm:"not null;size:63;index" json:"subdomain"`
	Status    TeamStatus `gorm:"not null;default:'pending_setup'" json:"status"`
	Tier      TeamTier   `gorm:"not null;default:'free'" json:"tier"`
	OwnerID   uint       `gorm:"not null" json:"owner_id"`
	SoftDelete
	Audit

	Members []Membership `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// GetTeamID makes a Team its own tenant resource, so resource-based
// authorization works uniformly on the team record itself.
func (t Team) GetTeamID() uint {
	return t.ID
}

// NormalizeSubdomain canonicalizes a raw subdomain for lookup and storage.
// "Eagles ", "eagles" and "EAGLES" all map to the same team.
func NormalizeSubdomain(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
