package dto

import "time"

// RegisterRequest creates an organization together with its first admin user.
type RegisterRequest struct {
	OrganizationName string `json:"organizationName"`
	Subdomain        string `json:"subdomain"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new access token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest invalidates a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyEmailRequest presents an email verification token
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateProfileRequest mutates the caller's own profile
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// UserInfo is the user representation returned to clients. IsAdmin is a
// legacy compatibility field derived from Role at this boundary only; the
// role enum is the single source of truth.
type UserInfo struct {
	ID             uint       `json:"id"`
	OrganizationID uint       `json:"organizationId"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	IsAdmin        bool       `json:"isAdmin"`
	IsActive       bool       `json:"isActive"`
	EmailVerified  bool       `json:"emailVerified"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// TokenPair is the credential set returned by login and refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until the access token expires
}

// LoginResponse carries the token pair and the authenticated user
type LoginResponse struct {
	TokenPair
	User UserInfo `json:"user"`
}
