package listing

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domainListing "rideshare-backend/internal/domain/listing"
	"rideshare-backend/internal/logger"
	appErrors "rideshare-backend/pkg/errors"
	"rideshare-backend/pkg/utils"
)

type Service struct {
	repo domainListing.Repository
}

func NewService(repo domainListing.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ownerID uint, req *CreateRequest) (*ListingResponse, error) {
	req.Title = utils.NormalizeKey(req.Title)
	req.DepartPlace = utils.NormalizeKey(req.DepartPlace)
	req.ArrivalPlace = utils.NormalizeKey(req.ArrivalPlace)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	departTime, _ := utils.NormalizeTimeOfDay(req.DepartTime)
	arrivalTime, _ := utils.NormalizeTimeOfDay(req.ArrivalTime)

	seats := req.Seats
	if seats == 0 {
		seats = 1
	}

	l := &domainListing.Listing{
		Title:          req.Title,
		OwnerID:        ownerID,
		DepartTime:     departTime,
		ArrivalTime:    arrivalTime,
		DepartPlace:    req.DepartPlace,
		ArrivalPlace:   req.ArrivalPlace,
		Price:          req.Price,
		Seats:          seats,
		Smoker:         req.Smoker,
		AnimalsAllowed: req.AnimalsAllowed,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, titleError(err)
	}

	created, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Listing created",
		zap.Uint("listing_id", created.ID),
		zap.Uint("owner_id", ownerID),
		zap.String("event", "listing_created"),
	)

	return ToListingResponse(created), nil
}

func (s *Service) Get(ctx context.Context, ref domainListing.Ref) (*ListingResponse, error) {
	l, err := domainListing.Find(ctx, s.repo, ref)
	if err != nil {
		return nil, err
	}
	return ToListingResponse(l), nil
}

func (s *Service) ListMine(ctx context.Context, ownerID uint) ([]*ListingResponse, error) {
	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ToListingResponses(listings), nil
}

// Search returns listings whose places equal depart and arrival exactly,
// after the same trimming applied when listings are stored.
func (s *Service) Search(ctx context.Context, depart, arrival string) ([]*ListingResponse, error) {
	listings, err := s.repo.Search(ctx, utils.NormalizeKey(depart), utils.NormalizeKey(arrival))
	if err != nil {
		return nil, err
	}
	return ToListingResponses(listings), nil
}

func (s *Service) Update(ctx context.Context, actorID uint, ref domainListing.Ref, req *UpdateRequest) (*ListingResponse, error) {
	sanitize := func(p *string) {
		if p != nil {
			*p = utils.NormalizeKey(*p)
		}
	}
	sanitize(req.Title)
	sanitize(req.DepartPlace)
	sanitize(req.ArrivalPlace)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	l, err := s.owned(ctx, actorID, ref)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.DepartTime != nil {
		l.DepartTime, _ = utils.NormalizeTimeOfDay(*req.DepartTime)
	}
	if req.ArrivalTime != nil {
		l.ArrivalTime, _ = utils.NormalizeTimeOfDay(*req.ArrivalTime)
	}
	if req.DepartPlace != nil {
		l.DepartPlace = *req.DepartPlace
	}
	if req.ArrivalPlace != nil {
		l.ArrivalPlace = *req.ArrivalPlace
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.Seats != nil {
		l.Seats = *req.Seats
	}
	if req.Smoker != nil {
		l.Smoker = *req.Smoker
	}
	if req.AnimalsAllowed != nil {
		l.AnimalsAllowed = *req.AnimalsAllowed
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, titleError(err)
	}

	logger.Info("Listing updated",
		zap.Uint("listing_id", l.ID),
		zap.Uint("owner_id", actorID),
		zap.String("event", "listing_updated"),
	)

	return ToListingResponse(l), nil
}

func (s *Service) Delete(ctx context.Context, actorID uint, ref domainListing.Ref) error {
	l, err := s.owned(ctx, actorID, ref)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, l.ID); err != nil {
		return err
	}

	logger.Info("Listing deleted",
		zap.Uint("listing_id", l.ID),
		zap.Uint("owner_id", actorID),
		zap.String("event", "listing_deleted"),
	)

	return nil
}

func (s *Service) owned(ctx context.Context, actorID uint, ref domainListing.Ref) (*domainListing.Listing, error) {
	l, err := domainListing.Find(ctx, s.repo, ref)
	if err != nil {
		return nil, err
	}
	if !l.OwnedBy(actorID) {
		logger.Warn("Listing modification by non-owner",
			zap.Uint("listing_id", l.ID),
			zap.Uint("actor_id", actorID),
			zap.String("event", "listing_forbidden"),
		)
		return nil, domainListing.ErrNotOwner
	}
	return l, nil
}

func titleError(err error) error {
	if errors.Is(err, domainListing.ErrTitleTaken) {
		return appErrors.NewValidationError("Invalid input",
			map[string]string{"title": err.Error()}, err)
	}
	return err
}
