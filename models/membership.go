// models/membership.go
package models

import "time"

// Role is the privilege level inside one team. A member holds exactly one.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Rank orders roles by privilege: lower rank = more privilege. Unknown roles
// rank below everything so they never satisfy a requirement.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 1
	case RoleAdmin:
		return 2
	case RoleMember:
		return 3
	default:
		return 99
	}
}

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}

// MemberType is the business classification of a membership, independent of
// the privilege role.
type MemberType string

const (
	MemberTypeCoach   MemberType = "coach"
	MemberTypeAthlete MemberType = "athlete"
	MemberTypeParent  MemberType = "parent"
)

type Membership struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	TeamID     uint       `gorm:"not null;index" json:"team_id"`
	Role       Role       `gorm:"not null;default:'member'" json:"role"`
	MemberType MemberType `gorm:"not null;default:'athlete'" json:"member_type"`
	IsActive   bool       `gorm:"default:true;index" json:"is_active"`
	IsDefault  bool       `gorm:"default:false" json:"is_default"`
	JoinedAt   time.Time  `gorm:"not null" json:"joined_at"`

	// Set when a team soft delete suspends the membership, so recovery restores
	// exactly the memberships the delete deactivated and no others.
	DeactivatedByDelete bool `gorm:"default:false" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (Membership) TableName() string {
	return "memberships"
}

func (m Membership) GetTeamID() uint {
	return m.TeamID
}
