// models/transfer.go
package models

import "time"

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
	TransferStatusExpired   TransferStatus = "expired"
)

// Terminal reports whether the status is final. Pending is the only
// non-terminal state; every transfer ends in exactly one terminal state.
func (s TransferStatus) Terminal() bool {
	return s != TransferStatusPending
}

// OwnershipTransfer moves a team from its current owner to a new owner,
// identified by email, via an expiring opaque token delivered out-of-band.
type OwnershipTransfer struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	TeamID            uint           `gorm:"not null;index" json:"team_id"`
	InitiatedByUserID uint           `gorm:"not null" json:"initiated_by_user_id"`
	NewOwnerEmail     string         `gorm:"not null" json:"new_owner_email"`
	ExistingMemberID  *uint          `json:"existing_member_id,omitempty"`
	Token             string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresOn         time.Time      `gorm:"not null" json:"expires_on"`
	Status            TransferStatus `gorm:"not null;default:'pending';index" json:"status"`
	CompletedOn       *time.Time     `json:"completed_on,omitempty"`
	CompletedByUserID *uint          `json:"completed_by_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (OwnershipTransfer) TableName() string {
	return "ownership_transfers"
}

func (t OwnershipTransfer) GetTeamID() uint {
	return t.TeamID
}

// ExpiredAt reports whether the transfer is past its deadline at the given
// instant. Expiry is detected lazily on lookup; the stored status may still
// read pending.
func (t OwnershipTransfer) ExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresOn)
}
