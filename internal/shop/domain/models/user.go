package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleCashier  Role = "cashier"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is the authenticated principal resolved from the request token.
type Session struct {
	UserID   int64
	UID      string
	Username string
	Role     Role
}

// IsStaff reports whether the principal may operate the cashier board.
func (s Session) IsStaff() bool {
	return s.Role == RoleCashier || s.Role == RoleAdmin
}
