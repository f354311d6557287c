package models

import "time"

// ============================================================================
// USER MODEL
// ============================================================================

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	TOTPSecret   string     `json:"-"` // Never expose in JSON
	TOTPEnabled  bool       `json:"totp_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// ============================================================================
// AUTHENTICATION REQUESTS
// ============================================================================

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
	ReturnURL  string `json:"return_url,omitempty"`
	TOTPCode   string `json:"totp_code,omitempty"`
}

type AuthResponse struct {
	User       User   `json:"user"`
	Token      string `json:"token"`
	CSRFToken  string `json:"csrf_token"`
	RedirectTo string `json:"redirect_to"`
}

// ============================================================================
// 2FA
// ============================================================================

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type VerifyTOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}
