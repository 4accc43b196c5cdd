package listing

import (
	"time"

	domainListing "rideshare-backend/internal/domain/listing"
)

type CreateRequest struct {
	Title          string  `json:"title" validate:"required,max=100,excludesall=/"`
	DepartTime     string  `json:"depart_time" validate:"required,timeofday"`
	ArrivalTime    string  `json:"arrival_time" validate:"required,timeofday"`
	DepartPlace    string  `json:"depart_place" validate:"required,max=70,excludesall=/"`
	ArrivalPlace   string  `json:"arrival_place" validate:"required,max=70,excludesall=/"`
	Price          float64 `json:"price" validate:"gte=0"`
	Seats          int     `json:"seats" validate:"omitempty,min=1,max=50"`
	Smoker         bool    `json:"smoker"`
	AnimalsAllowed bool    `json:"animals_allowed"`
}

// UpdateRequest is a partial update. Reserved cannot be changed here.
type UpdateRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=1,max=100,excludesall=/"`
	DepartTime     *string  `json:"depart_time" validate:"omitempty,timeofday"`
	ArrivalTime    *string  `json:"arrival_time" validate:"omitempty,timeofday"`
	DepartPlace    *string  `json:"depart_place" validate:"omitempty,min=1,max=70,excludesall=/"`
	ArrivalPlace   *string  `json:"arrival_place" validate:"omitempty,min=1,max=70,excludesall=/"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Seats          *int     `json:"seats" validate:"omitempty,min=1,max=50"`
	Smoker         *bool    `json:"smoker"`
	AnimalsAllowed *bool    `json:"animals_allowed"`
}

type ListingResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	OwnerID        uint      `json:"owner_id"`
	Owner          string    `json:"owner"`
	DepartTime     string    `json:"depart_time"`
	ArrivalTime    string    `json:"arrival_time"`
	DepartPlace    string    `json:"depart_place"`
	ArrivalPlace   string    `json:"arrival_place"`
	Price          float64   `json:"price"`
	Seats          int       `json:"seats"`
	Smoker         bool      `json:"smoker"`
	AnimalsAllowed bool      `json:"animals_allowed"`
	Reserved       bool      `json:"reserved"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToListingResponse(l *domainListing.Listing) *ListingResponse {
	if l == nil {
		return nil
	}
	return &ListingResponse{
		ID:             l.ID,
		Title:          l.Title,
		OwnerID:        l.OwnerID,
		Owner:          l.OwnerUsername,
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
	}
}

func ToListingResponses(listings []*domainListing.Listing) []*ListingResponse {
	out := make([]*ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = ToListingResponse(l)
	}
	return out
}
