package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID             uint      `gorm:"primaryKey"`
	Username       string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email          string    `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHashed string    `gorm:"type:varchar(255);not null"`
	PhoneNumber    *string   `gorm:"type:varchar(20)"`
	Role           string    `gorm:"type:varchar(20);not null;default:'client'"`
	Age            *int      `gorm:"type:integer"`
	AvatarKey      *string   `gorm:"type:varchar(255)"`
	PermitKey      *string   `gorm:"type:varchar(255)"`
	IsActive       bool      `gorm:"default:true;not null"`
	IsStaff        bool      `gorm:"default:false;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// RefreshTokenModel represents the database model for RefreshToken
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"type:varchar(500);not null;uniqueIndex"`
	JTI       string    `gorm:"column:jti;type:varchar(64);not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Revoked   bool      `gorm:"default:false;not null;index"`
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
