package user

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID uint) (*User, error)
	// Update also replaces the password hash when user.PasswordHashed is set.
	Update(ctx context.Context, user *User) error
	UpdateImage(ctx context.Context, userID uint, kind ImageKind, key *string) error
	// Delete removes the user together with everything it owns.
	Delete(ctx context.Context, userID uint) error
}

// RefreshTokenRepository defines the interface for refresh token operations
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error
	RevokeAllUserTokens(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) error
}

// TokenBlacklist remembers access-token ids revoked before their expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ImageStore keeps uploaded profile images as opaque objects.
//
//go:generate mockgen -destination=mocks/image_store_mock.go -package=mocks rideshare-backend/internal/domain/user ImageStore
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
