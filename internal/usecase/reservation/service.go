package reservation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domainListing "rideshare-backend/internal/domain/listing"
	domainReservation "rideshare-backend/internal/domain/reservation"
	"rideshare-backend/internal/logger"
	"rideshare-backend/internal/metrics"
)

type Service struct {
	listings domainListing.Repository
	repo     domainReservation.Repository
	metrics  *metrics.Metrics
}

func NewService(listings domainListing.Repository, repo domainReservation.Repository, m *metrics.Metrics) *Service {
	return &Service{listings: listings, repo: repo, metrics: m}
}

// Reserve claims the referenced listing for actorID. Any authenticated user
// may reserve, the owner included.
func (s *Service) Reserve(ctx context.Context, actorID uint, ref domainListing.Ref) (*ConfirmationResponse, error) {
	l, err := domainListing.Find(ctx, s.listings, ref)
	if err != nil {
		s.metrics.Reservation(metrics.ActionReserve, outcomeOf(err))
		return nil, err
	}

	history, err := s.repo.Reserve(ctx, l.ID, actorID)
	s.metrics.Reservation(metrics.ActionReserve, outcomeOf(err))
	if err != nil {
		if errors.Is(err, domainReservation.ErrAlreadyReserved) {
			logger.Info("Reservation rejected",
				zap.Uint("listing_id", l.ID),
				zap.Uint("visitor_id", actorID),
				zap.String("event", "reservation_conflict"),
			)
		}
		return nil, err
	}

	logger.Info("Listing reserved",
		zap.Uint("listing_id", l.ID),
		zap.Uint("visitor_id", actorID),
		zap.Uint("history_id", history.ID),
		zap.String("event", "listing_reserved"),
	)

	return &ConfirmationResponse{
		Message:   fmt.Sprintf("trip %q (id %d) reserved", l.Title, l.ID),
		ListingID: l.ID,
		Title:     l.Title,
	}, nil
}

// Cancel frees the referenced listing. Only its owner or the passenger
// holding the reservation may cancel.
func (s *Service) Cancel(ctx context.Context, actorID uint, ref domainListing.Ref) (*ConfirmationResponse, error) {
	l, err := domainListing.Find(ctx, s.listings, ref)
	if err != nil {
		s.metrics.Reservation(metrics.ActionCancel, outcomeOf(err))
		return nil, err
	}

	err = s.repo.Cancel(ctx, l.ID, actorID)
	s.metrics.Reservation(metrics.ActionCancel, outcomeOf(err))
	if err != nil {
		if errors.Is(err, domainReservation.ErrCancelForbidden) {
			logger.Warn("Cancellation by unrelated user",
				zap.Uint("listing_id", l.ID),
				zap.Uint("actor_id", actorID),
				zap.String("event", "reservation_cancel_forbidden"),
			)
		}
		return nil, err
	}

	logger.Info("Reservation cancelled",
		zap.Uint("listing_id", l.ID),
		zap.Uint("actor_id", actorID),
		zap.String("event", "reservation_cancelled"),
	)

	return &ConfirmationResponse{
		Message:   fmt.Sprintf("reservation of trip %q (id %d) cancelled", l.Title, l.ID),
		ListingID: l.ID,
		Title:     l.Title,
	}, nil
}

// History lists reservation records for userID, newest first.
func (s *Service) History(ctx context.Context, userID uint, scope domainReservation.Scope) ([]*HistoryResponse, error) {
	histories, err := s.repo.List(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	out := make([]*HistoryResponse, len(histories))
	for i, h := range histories {
		out[i] = toHistoryResponse(h)
	}
	return out, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domainReservation.ErrAlreadyReserved):
		return metrics.OutcomeAlreadyReserved
	case errors.Is(err, domainReservation.ErrNotReserved):
		return metrics.OutcomeNotReserved
	case errors.Is(err, domainReservation.ErrCancelForbidden):
		return metrics.OutcomeForbidden
	case errors.Is(err, domainListing.ErrListingNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
