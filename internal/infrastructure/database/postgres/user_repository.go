package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/infrastructure/database/postgres/models"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if isDuplicateKey(err) {
			return r.conflictFor(ctx, u.ID, u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt
	u.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getWhere(ctx, "email = ?", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getWhere(ctx, "username = ?", username)
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*user.User, error) {
	return r.getWhere(ctx, "id = ?", userID)
}

func (r *UserRepository) getWhere(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where(query, arg).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

// Update writes the profile fields. The password hash is written in the
// same statement when u.PasswordHashed is set.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	fields := map[string]interface{}{
		"email":        u.Email,
		"username":     u.Username,
		"phone_number": u.PhoneNumber,
		"role":         u.Role,
		"age":          u.Age,
		"updated_at":   u.UpdatedAt,
	}
	if u.PasswordHashed != "" {
		fields["password_hashed"] = u.PasswordHashed
	}

	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(fields)

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return r.conflictFor(ctx, u.ID, u.Email)
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdateImage(ctx context.Context, userID uint, kind user.ImageKind, key *string) error {
	column := "avatar_key"
	if kind == user.ImagePermit {
		column = "permit_key"
	}

	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			column:       key,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Delete removes the user and everything hanging off it in one transaction.
// Trips the user had booked are freed again. Histories of the user's
// listings survive with a NULL listing.
func (r *UserRepository) Delete(ctx context.Context, userID uint) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownListings := tx.Model(&models.ListingModel{}).Select("id").Where("owner_id = ?", userID)
		visited := tx.Model(&models.HistoryModel{}).Select("listing_id").Where("visitor_id = ?", userID)

		if err := tx.Model(&models.ListingModel{}).
			Where("id IN (?) AND reserved = ?", visited, true).
			Updates(map[string]interface{}{
				"reserved":   false,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("failed to release reservations: %w", err)
		}

		if err := tx.Where("visitor_id = ?", userID).Delete(&models.HistoryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete user history: %w", err)
		}

		if err := tx.Model(&models.HistoryModel{}).
			Where("listing_id IN (?)", ownListings).
			Update("listing_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach listing history: %w", err)
		}

		if err := tx.Where("owner_id = ?", userID).Delete(&models.ListingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete user listings: %w", err)
		}

		if err := tx.Where("author_id = ? OR recipient_id = ?", userID, userID).
			Delete(&models.RatingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete user ratings: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshTokenModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete refresh tokens: %w", err)
		}

		result := tx.Delete(&models.UserModel{}, "id = ?", userID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return user.ErrUserNotFound
		}

		return nil
	})
}

// conflictFor works out which unique column a failed write collided with.
func (r *UserRepository) conflictFor(ctx context.Context, selfID uint, email string) error {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ? AND id <> ?", email, selfID).
		Count(&count).Error
	if err == nil && count > 0 {
		return user.ErrEmailTaken
	}
	return user.ErrUsernameTaken
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// Helper functions to convert between domain entities and database models

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		PhoneNumber:    u.PhoneNumber,
		Role:           u.Role,
		Age:            u.Age,
		AvatarKey:      u.AvatarKey,
		PermitKey:      u.PermitKey,
		IsActive:       u.IsActive,
		IsStaff:        u.IsStaff,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		PhoneNumber:    m.PhoneNumber,
		Role:           m.Role,
		Age:            m.Age,
		AvatarKey:      m.AvatarKey,
		PermitKey:      m.PermitKey,
		IsActive:       m.IsActive,
		IsStaff:        m.IsStaff,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
