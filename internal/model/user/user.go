package user

import "time"

// Role controls access to the admin back-office.
type Role string

const (
	RoleWarga Role = "warga"
	RoleAdmin Role = "admin"
)

// User is a portal account. The password hash never leaves the backend.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"fullName" db:"full_name"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Address      string    `json:"address,omitempty" db:"address"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsAdmin reports whether the account may reach admin endpoints.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
