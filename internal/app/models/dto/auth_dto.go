package dto

import "github.com/learnhub/backend/internal/app/models"

// RegisterRequest represents a self-registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token alongside the authenticated user
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"` // Seconds until the token expires
	User      *models.User `json:"user"`
}
