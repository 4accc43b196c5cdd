package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rideshare-backend/internal/domain/listing"
	"rideshare-backend/internal/domain/reservation"
	"rideshare-backend/internal/infrastructure/database/postgres/models"
)

type ReservationRepository struct {
	db *DB
}

func NewReservationRepository(db *DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Reserve claims a free listing. The conditional update is the only gate:
// of two concurrent callers exactly one sees a row affected.
func (r *ReservationRepository) Reserve(ctx context.Context, listingID, visitorID uint) (*reservation.History, error) {
	var history *reservation.History

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ListingModel{}).
			Where("id = ? AND reserved = ?", listingID, false).
			Updates(map[string]interface{}{
				"reserved":   true,
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("failed to reserve listing: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			current, err := currentListing(tx, listingID)
			if err != nil {
				return err
			}
			if current.Reserved {
				return reservation.ErrAlreadyReserved
			}
			return fmt.Errorf("listing %d changed during reservation", listingID)
		}

		dbModel := &models.HistoryModel{
			ListingID: &listingID,
			VisitorID: visitorID,
			VisitedAt: today(),
		}
		if err := tx.Create(dbModel).Error; err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}

		history = toHistoryEntity(dbModel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return history, nil
}

// Cancel frees the listing when actor owns it or holds the active reservation,
// then removes every history row of the listing.
func (r *ReservationRepository) Cancel(ctx context.Context, listingID, actorID uint) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holdsReservation := tx.Model(&models.HistoryModel{}).
			Select("1").
			Where("histories.listing_id = listings.id AND histories.visitor_id = ?", actorID)

		result := tx.Model(&models.ListingModel{}).
			Where("id = ? AND reserved = ?", listingID, true).
			Where("(owner_id = ? OR EXISTS (?))", actorID, holdsReservation).
			Updates(map[string]interface{}{
				"reserved":   false,
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("failed to cancel reservation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			current, err := currentListing(tx, listingID)
			if err != nil {
				return err
			}
			if !current.Reserved {
				return reservation.ErrNotReserved
			}
			return reservation.ErrCancelForbidden
		}

		if err := tx.Where("listing_id = ?", listingID).Delete(&models.HistoryModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}

		return nil
	})
}

func (r *ReservationRepository) List(ctx context.Context, userID uint, scope reservation.Scope) ([]*reservation.History, error) {
	query := r.db.DB.WithContext(ctx).
		Model(&models.HistoryModel{}).
		Preload("Listing.Owner").
		Preload("Visitor")

	switch scope {
	case reservation.ScopeVisited:
		query = query.Where("histories.visitor_id = ?", userID)
	case reservation.ScopeIncoming:
		query = query.
			Joins("JOIN listings ON listings.id = histories.listing_id").
			Where("listings.owner_id = ? AND listings.reserved = ?", userID, true)
	case reservation.ScopeTrips:
		query = query.
			Joins("LEFT JOIN listings ON listings.id = histories.listing_id").
			Where("histories.visitor_id = ? OR listings.owner_id = ?", userID, userID)
	default:
		return nil, fmt.Errorf("unknown history scope %q", scope)
	}

	var dbModels []models.HistoryModel
	if err := query.Order("histories.visited_at DESC, histories.id DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	histories := make([]*reservation.History, len(dbModels))
	for i := range dbModels {
		histories[i] = toHistoryEntity(&dbModels[i])
	}

	return histories, nil
}

func currentListing(tx *gorm.DB, listingID uint) (*models.ListingModel, error) {
	var current models.ListingModel
	err := tx.Select("id", "reserved").First(&current, "id = ?", listingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, listing.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &current, nil
}

// today is the calendar date of the reservation, stored without a clock.
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toHistoryEntity(m *models.HistoryModel) *reservation.History {
	h := &reservation.History{
		ID:        m.ID,
		ListingID: m.ListingID,
		VisitorID: m.VisitorID,
		VisitedAt: m.VisitedAt,
	}
	if m.Listing != nil {
		h.Listing = toListingEntity(m.Listing)
	}
	if m.Visitor != nil {
		h.Visitor = toUserEntity(m.Visitor)
	}
	return h
}
