package rating

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	domainRating "rideshare-backend/internal/domain/rating"
	domainUser "rideshare-backend/internal/domain/user"
	"rideshare-backend/internal/logger"
	appErrors "rideshare-backend/pkg/errors"
	"rideshare-backend/pkg/utils"
)

type Service struct {
	repo     domainRating.Repository
	userRepo domainUser.Repository
}

func NewService(repo domainRating.Repository, userRepo domainUser.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

// Create stores a rating from authorID to the referenced user.
func (s *Service) Create(ctx context.Context, authorID uint, to UserRef, req *CreateRequest) (*RatingResponse, error) {
	req.Title = utils.SanitizePlain(req.Title)
	req.Comment = utils.SanitizeText(req.Comment)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}
	if err := checkScore(*req.Rating); err != nil {
		return nil, err
	}

	recipient, err := s.resolve(ctx, to)
	if err != nil {
		return nil, err
	}

	r := &domainRating.Rating{
		Title:       req.Title,
		Score:       *req.Rating,
		Comment:     req.Comment,
		AuthorID:    authorID,
		RecipientID: recipient.ID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Rating created",
		zap.Uint("rating_id", r.ID),
		zap.Uint("author_id", authorID),
		zap.Uint("recipient_id", recipient.ID),
		zap.Int("score", r.Score),
		zap.String("event", "rating_created"),
	)

	return ToRatingResponse(created), nil
}

// ListAuthored returns the ratings authorID wrote.
func (s *Service) ListAuthored(ctx context.Context, authorID uint) ([]*RatingResponse, error) {
	ratings, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toRatingResponses(ratings), nil
}

// ListReceived returns the ratings the referenced user received.
func (s *Service) ListReceived(ctx context.Context, of UserRef) (*ReceivedResponse, error) {
	u, err := s.resolve(ctx, of)
	if err != nil {
		return nil, err
	}
	return s.received(ctx, u)
}

// ListMine returns the ratings the caller received.
func (s *Service) ListMine(ctx context.Context, userID uint) (*ReceivedResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.received(ctx, u)
}

func (s *Service) received(ctx context.Context, u *domainUser.User) (*ReceivedResponse, error) {
	ratings, err := s.repo.ListByRecipient(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.SummaryFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &ReceivedResponse{
		User:    u.Username,
		Average: math.Round(summary.Average*100) / 100,
		Count:   summary.Count,
		Ratings: toRatingResponses(ratings),
	}, nil
}

// UpdateLatest edits the most recent rating authorID left for recipientUsername.
func (s *Service) UpdateLatest(ctx context.Context, authorID uint, recipientUsername string, req *UpdateRequest) (*RatingResponse, error) {
	if req.Title != nil {
		*req.Title = utils.SanitizePlain(*req.Title)
	}
	if req.Comment != nil {
		*req.Comment = utils.SanitizeText(*req.Comment)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}
	if req.Rating != nil {
		if err := checkScore(*req.Rating); err != nil {
			return nil, err
		}
	}

	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return nil, err
	}

	r, err := s.repo.LatestBetween(ctx, authorID, recipient.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Rating != nil {
		r.Score = *req.Rating
	}
	if req.Comment != nil {
		r.Comment = *req.Comment
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}

	logger.Info("Rating updated",
		zap.Uint("rating_id", r.ID),
		zap.Uint("author_id", authorID),
		zap.String("event", "rating_updated"),
	)

	return ToRatingResponse(r), nil
}

// DeleteAll removes every rating authorID wrote for recipientUsername.
func (s *Service) DeleteAll(ctx context.Context, authorID uint, recipientUsername string) (int64, error) {
	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.DeleteBetween(ctx, authorID, recipient.ID)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, domainRating.ErrRatingNotFound
	}

	logger.Info("Ratings deleted",
		zap.Uint("author_id", authorID),
		zap.Uint("recipient_id", recipient.ID),
		zap.Int64("count", deleted),
		zap.String("event", "ratings_deleted"),
	)

	return deleted, nil
}

func (s *Service) resolve(ctx context.Context, ref UserRef) (*domainUser.User, error) {
	if ref.Email != "" {
		return s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(ref.Email))
	}
	return s.userRepo.GetByUsername(ctx, ref.Username)
}

func checkScore(score int) error {
	if score < domainRating.MinScore || score > domainRating.MaxScore {
		return appErrors.NewValidationError("Invalid input",
			map[string]string{"rating": fmt.Sprintf("must be between %d and %d", domainRating.MinScore, domainRating.MaxScore)},
			domainRating.ErrScoreOutOfRange)
	}
	return nil
}
