package reservation

import (
	"time"

	"rideshare-backend/internal/domain/listing"
	"rideshare-backend/internal/domain/user"
)

// History records that a visitor reserved a listing on a given day.
// Listing is nil once the trip has been deleted.
type History struct {
	ID        uint
	ListingID *uint
	Listing   *listing.Listing
	VisitorID uint
	Visitor   *user.User
	VisitedAt time.Time
}

// Scope selects which history rows a user sees.
type Scope string

const (
	// ScopeVisited lists the reservations the user made.
	ScopeVisited Scope = "visited"
	// ScopeIncoming lists active reservations on the user's own listings.
	ScopeIncoming Scope = "incoming"
	// ScopeTrips combines both sides.
	ScopeTrips Scope = "trips"
)
