package models

import "time"

type Role string
type AccountStatus string

const (
	RoleAdmin  Role = "ADMIN"
	RoleTrader Role = "TRADER"
	RoleUser   Role = "USER"

	StatusPending  AccountStatus = "PENDING"  // Registered, waiting for an admin
	StatusApproved AccountStatus = "APPROVED" // May sign in
	StatusRejected AccountStatus = "REJECTED" // Registration refused
	StatusBanned   AccountStatus = "BANNED"   // Blocked by an admin
)

type User struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	FullName      string        `gorm:"not null" json:"fullName"`
	Email         string        `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string        `gorm:"not null" json:"-"`
	Phone         string        `json:"phone"`
	Governorate   string        `json:"governorate"`
	Age           int           `json:"age"`
	Role          Role          `gorm:"type:VARCHAR(10);default:'TRADER';index" json:"role"`
	Status        AccountStatus `gorm:"type:VARCHAR(10);default:'PENDING';index" json:"status"`
	AdminNickname string        `json:"adminNickname,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"-"`
}

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) Approved() bool {
	return u != nil && u.Status == StatusApproved
}

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleTrader, RoleUser:
		return r, true
	}
	return "", false
}

func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch st := AccountStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusBanned:
		return st, true
	}
	return "", false
}
