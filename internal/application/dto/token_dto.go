package dto

import "time"

// IssueTokenRequest entrada para emitir un token de cliente.
type IssueTokenRequest struct {
	ClientID   string `json:"client_id"`
	Role       string `json:"role,omitempty"`        // billing (por defecto) | admin
	ExpMinutes int    `json:"exp_minutes,omitempty"` // 0 = JWT_EXPIRATION_MINUTES
}

// TokenResponse salida con el token JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"client_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
