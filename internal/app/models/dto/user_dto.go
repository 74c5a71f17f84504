package dto

// CreateUserRequest represents an admin-initiated user creation request.
// Admin-created users are always students; no role can be supplied.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
}
