// models/user.go
package models

import "time"

type User struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"not null" json:"-"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	IsGlobalAdmin bool   `gorm:"default:false" json:"is_global_admin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// A global admin has no memberships at all; tenant access comes from the flag.
	Memberships []Membership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

func (User) TableName() string {
	return "users"
}
