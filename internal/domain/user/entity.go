package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleDriver = "driver"
	RoleClient = "client"
)

// ImageKind names one of the two image slots a profile carries.
type ImageKind string

const (
	ImageAvatar ImageKind = "avatar"
	ImagePermit ImageKind = "permit"
)

func (k ImageKind) Valid() bool {
	return k == ImageAvatar || k == ImagePermit
}

// User represents a user entity in the domain
type User struct {
	ID             uint
	Email          string
	Username       string
	PhoneNumber    *string
	PasswordHashed string
	Role           string
	Age            *int
	AvatarKey      *string
	PermitKey      *string
	IsActive       bool
	IsStaff        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RefreshToken represents a refresh token entity
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uint
	Token     string
	JTI       string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsActive checks if the refresh token is active (not revoked and not expired)
func (rt *RefreshToken) IsActive() bool {
	return !rt.Revoked && !rt.IsExpired()
}
