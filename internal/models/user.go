package models

// RoleUser is the role assigned to every newly registered user
const RoleUser = "USER"

// User represents a user in the system
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never serialize password hash
	Role         string `json:"role"`
}

// RegisterRequest represents a registration request.
//
// Role is accepted for compatibility with older clients but always ignored,
// new users get RoleUser.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}
