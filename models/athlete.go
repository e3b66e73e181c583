// models/athlete.go
package models

import "time"

// Athlete is a tenant-scoped roster record. Its business fields are opaque to
// the authorization core; what matters is the TenantModel contract.
type Athlete struct {
	TenantModel
	FirstName string     `gorm:"not null;size:100" json:"first_name"`
	LastName  string     `gorm:"not null;size:100" json:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes"`
}

func (Athlete) TableName() string {
	return "athletes"
}
