package model

import (
	"time"
)

type UserRole string

const (
	Student  UserRole = "STUDENT"
	Educator UserRole = "EDUCATOR"
)

// ValidRole reports whether r is one of the two assignable roles. A user may
// exist without a role until they pick one; the empty string is not valid as
// an explicit choice.
func ValidRole(r UserRole) bool {
	return r == Student || r == Educator
}

// User is keyed by the wallet that signed in. WalletAddress identifies the
// account and never changes after creation; PayoutAddress is where an
// educator receives course payments and may be updated at any time.
// swagger:model User
type User struct {
	UUIDBase
	Name          string    `gorm:"size:100" json:"name"`
	Email         string    `gorm:"size:100" json:"email"`
	WalletAddress string    `gorm:"size:64;uniqueIndex;not null" json:"walletAddress"`
	PayoutAddress string    `gorm:"size:64" json:"payoutAddress,omitempty"`
	Role          UserRole  `gorm:"size:20;default:''" json:"role"`
	LastLogin     time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
