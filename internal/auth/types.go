package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account roles and providers.
const (
	RoleUser = "user"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User is the public view of an account.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	AuthProvider string    `json:"authProvider"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayIdentity is the name stamped into exports: the username, else the email.
func (u User) DisplayIdentity() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RegisterRequest for email/password registration.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries editable profile fields; empty values keep the current one.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// OAuthProvider constants.
const (
	OAuthProviderGoogle = ProviderGoogle
)
