package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rideshare-backend/internal/domain/listing"
	"rideshare-backend/internal/infrastructure/database/postgres/models"
)

type ListingRepository struct {
	db *DB
}

func NewListingRepository(db *DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.Reserved = false

	dbModel := toListingModel(l)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if isDuplicateKey(err) {
			return listing.ErrTitleTaken
		}
		return fmt.Errorf("failed to create listing: %w", err)
	}

	l.ID = dbModel.ID
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id uint) (*listing.Listing, error) {
	return r.getWhere(ctx, "listings.id = ?", id)
}

func (r *ListingRepository) GetByTitle(ctx context.Context, title string) (*listing.Listing, error) {
	return r.getWhere(ctx, "listings.title = ?", title)
}

func (r *ListingRepository) getWhere(ctx context.Context, query string, arg interface{}) (*listing.Listing, error) {
	var dbModel models.ListingModel
	err := r.db.DB.WithContext(ctx).
		Preload("Owner").
		Where(query, arg).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return toListingEntity(&dbModel), nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*listing.Listing, error) {
	return r.findWhere(ctx, "owner_id = ?", ownerID)
}

func (r *ListingRepository) Search(ctx context.Context, departPlace, arrivalPlace string) ([]*listing.Listing, error) {
	return r.findWhere(ctx, "depart_place = ? AND arrival_place = ?", departPlace, arrivalPlace)
}

func (r *ListingRepository) findWhere(ctx context.Context, query string, args ...interface{}) ([]*listing.Listing, error) {
	var dbModels []models.ListingModel
	err := r.db.DB.WithContext(ctx).
		Preload("Owner").
		Where(query, args...).
		Order("created_at DESC, id DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	listings := make([]*listing.Listing, len(dbModels))
	for i := range dbModels {
		listings[i] = toListingEntity(&dbModels[i])
	}

	return listings, nil
}

func (r *ListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	l.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.ListingModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"title":           l.Title,
			"depart_time":     l.DepartTime,
			"arrival_time":    l.ArrivalTime,
			"depart_place":    l.DepartPlace,
			"arrival_place":   l.ArrivalPlace,
			"price":           l.Price,
			"seats":           l.Seats,
			"smoker":          l.Smoker,
			"animals_allowed": l.AnimalsAllowed,
			"updated_at":      l.UpdatedAt,
		})

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return listing.ErrTitleTaken
		}
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return listing.ErrListingNotFound
	}

	return nil
}

// Delete keeps the listing's history rows and detaches them.
func (r *ListingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.HistoryModel{}).
			Where("listing_id = ?", id).
			Update("listing_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach history: %w", err)
		}

		result := tx.Delete(&models.ListingModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete listing: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return listing.ErrListingNotFound
		}

		return nil
	})
}

func toListingModel(l *listing.Listing) *models.ListingModel {
	return &models.ListingModel{
		ID:             l.ID,
		Title:          l.Title,
		OwnerID:        l.OwnerID,
		DepartTime:     l.DepartTime,
		ArrivalTime:    l.ArrivalTime,
		DepartPlace:    l.DepartPlace,
		ArrivalPlace:   l.ArrivalPlace,
		Price:          l.Price,
		Seats:          l.Seats,
		Smoker:         l.Smoker,
		AnimalsAllowed: l.AnimalsAllowed,
		Reserved:       l.Reserved,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toListingEntity(m *models.ListingModel) *listing.Listing {
	l := &listing.Listing{
		ID:             m.ID,
		Title:          m.Title,
		OwnerID:        m.OwnerID,
		DepartTime:     m.DepartTime,
		ArrivalTime:    m.ArrivalTime,
		DepartPlace:    m.DepartPlace,
		ArrivalPlace:   m.ArrivalPlace,
		Price:          m.Price,
		Seats:          m.Seats,
		Smoker:         m.Smoker,
		AnimalsAllowed: m.AnimalsAllowed,
		Reserved:       m.Reserved,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Owner != nil {
		l.OwnerUsername = m.Owner.Username
	}
	return l
}
