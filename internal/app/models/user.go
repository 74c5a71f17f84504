package models

// Role defines the user role type. It is a closed set: authorization code
// switches on it exhaustively, so a new role has to be handled everywhere.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	}
	return false
}

// User defines the user model based on the 'users' table
type User struct {
	ID       int64  `json:"id" db:"id" example:"1"`          // Unique identifier for the user
	Username string `json:"username" db:"username"`          // Unique, case-sensitive username
	Password string `json:"-" db:"password"`                 // Bcrypt hash, excluded from JSON
	Role     Role   `json:"role" db:"role" example:"student"` // User's role (admin or student)
}
