package model

import "github.com/google/uuid"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the response for token generation
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Role        string    `json:"role"`
}

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ProfileID uuid.UUID
	Role      string
}
