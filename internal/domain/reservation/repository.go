package reservation

import "context"

type Repository interface {
	// Reserve flips the listing to reserved and records the visitor in one step.
	Reserve(ctx context.Context, listingID, visitorID uint) (*History, error)
	// Cancel frees a reserved listing and drops its history rows.
	Cancel(ctx context.Context, listingID, actorID uint) error
	List(ctx context.Context, userID uint, scope Scope) ([]*History, error)
}
