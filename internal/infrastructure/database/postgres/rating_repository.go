package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rideshare-backend/internal/domain/rating"
	"rideshare-backend/internal/infrastructure/database/postgres/models"
)

type RatingRepository struct {
	db *DB
}

func NewRatingRepository(db *DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rt *rating.Rating) error {
	now := time.Now()
	rt.CreatedAt = now
	rt.UpdatedAt = now

	dbModel := toRatingModel(rt)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}

	rt.ID = dbModel.ID
	return nil
}

func (r *RatingRepository) ListByRecipient(ctx context.Context, recipientID uint) ([]*rating.Rating, error) {
	return r.findWhere(ctx, "recipient_id = ?", recipientID)
}

func (r *RatingRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*rating.Rating, error) {
	return r.findWhere(ctx, "author_id = ?", authorID)
}

func (r *RatingRepository) findWhere(ctx context.Context, query string, args ...interface{}) ([]*rating.Rating, error) {
	var dbModels []models.RatingModel
	err := r.db.DB.WithContext(ctx).
		Preload("Author").
		Preload("Recipient").
		Where(query, args...).
		Order("created_at DESC, id DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	ratings := make([]*rating.Rating, len(dbModels))
	for i := range dbModels {
		ratings[i] = toRatingEntity(&dbModels[i])
	}

	return ratings, nil
}

func (r *RatingRepository) GetByID(ctx context.Context, id uint) (*rating.Rating, error) {
	return r.firstWhere(ctx, "id = ?", id)
}

func (r *RatingRepository) LatestBetween(ctx context.Context, authorID, recipientID uint) (*rating.Rating, error) {
	return r.firstWhere(ctx, "author_id = ? AND recipient_id = ?", authorID, recipientID)
}

func (r *RatingRepository) firstWhere(ctx context.Context, query string, args ...interface{}) (*rating.Rating, error) {
	var dbModel models.RatingModel
	err := r.db.DB.WithContext(ctx).
		Preload("Author").
		Preload("Recipient").
		Where(query, args...).
		Order("created_at DESC, id DESC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rating.ErrRatingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return toRatingEntity(&dbModel), nil
}

func (r *RatingRepository) Update(ctx context.Context, rt *rating.Rating) error {
	rt.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.RatingModel{}).
		Where("id = ?", rt.ID).
		Updates(map[string]interface{}{
			"title":      rt.Title,
			"rating":     rt.Score,
			"comment":    rt.Comment,
			"updated_at": rt.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return rating.ErrRatingNotFound
	}

	return nil
}

func (r *RatingRepository) DeleteBetween(ctx context.Context, authorID, recipientID uint) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("author_id = ? AND recipient_id = ?", authorID, recipientID).
		Delete(&models.RatingModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete ratings: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *RatingRepository) SummaryFor(ctx context.Context, recipientID uint) (*rating.Summary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.DB.WithContext(ctx).
		Model(&models.RatingModel{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("recipient_id = ?", recipientID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	summary := &rating.Summary{Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}

func toRatingModel(rt *rating.Rating) *models.RatingModel {
	return &models.RatingModel{
		ID:          rt.ID,
		Title:       rt.Title,
		Score:       rt.Score,
		Comment:     rt.Comment,
		AuthorID:    rt.AuthorID,
		RecipientID: rt.RecipientID,
		CreatedAt:   rt.CreatedAt,
		UpdatedAt:   rt.UpdatedAt,
	}
}

func toRatingEntity(m *models.RatingModel) *rating.Rating {
	rt := &rating.Rating{
		ID:          m.ID,
		Title:       m.Title,
		Score:       m.Score,
		Comment:     m.Comment,
		AuthorID:    m.AuthorID,
		RecipientID: m.RecipientID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Author != nil {
		rt.AuthorUsername = m.Author.Username
	}
	if m.Recipient != nil {
		rt.RecipientUsername = m.Recipient.Username
	}
	return rt
}
