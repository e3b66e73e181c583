// models/registration.go
package models

// Registration records an athlete signing up for a season. Tenant-scoped
// opaque payload, same contract as Athlete.
type Registration struct {
	TenantModel
	AthleteID    uint   `gorm:"not null;index" json:"athlete_id"`
	Season       string `gorm:"not null;size:50" json:"season"`
	ContactEmail string `gorm:"not null" json:"contact_email"`
	Status       string `gorm:"not null;default:'submitted'" json:"status"`

	Athlete *Athlete `gorm:"foreignKey:AthleteID" json:"athlete,omitempty"`
}

func (Registration) TableName() string {
	return "registrations"
}
