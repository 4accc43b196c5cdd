package reservation

import (
	domainReservation "rideshare-backend/internal/domain/reservation"
	domainUser "rideshare-backend/internal/domain/user"
	listingUsecase "rideshare-backend/internal/usecase/listing"
)

// VisitedAtLayout is how history dates are rendered.
const VisitedAtLayout = "02 January 2006"

type ConfirmationResponse struct {
	Message   string `json:"message"`
	ListingID uint   `json:"listing_id"`
	Title     string `json:"title"`
}

type VisitorResponse struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Role        string  `json:"role"`
}

type HistoryResponse struct {
	ID        uint                            `json:"id"`
	ListingID *uint                           `json:"listing_id"`
	Listing   *listingUsecase.ListingResponse `json:"listing"`
	Visitor   *VisitorResponse                `json:"visitor"`
	VisitedAt string                          `json:"visited_at"`
}

func toVisitorResponse(u *domainUser.User) *VisitorResponse {
	if u == nil {
		return nil
	}
	return &VisitorResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

func toHistoryResponse(h *domainReservation.History) *HistoryResponse {
	return &HistoryResponse{
		ID:        h.ID,
		ListingID: h.ListingID,
		Listing:   listingUsecase.ToListingResponse(h.Listing),
		Visitor:   toVisitorResponse(h.Visitor),
		VisitedAt: h.VisitedAt.Format(VisitedAtLayout),
	}
}
