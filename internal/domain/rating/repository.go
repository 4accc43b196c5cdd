package rating

import "context"

type Repository interface {
	Create(ctx context.Context, r *Rating) error
	GetByID(ctx context.Context, id uint) (*Rating, error)
	ListByRecipient(ctx context.Context, recipientID uint) ([]*Rating, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*Rating, error)
	// LatestBetween returns the most recent rating author left for recipient.
	LatestBetween(ctx context.Context, authorID, recipientID uint) (*Rating, error)
	Update(ctx context.Context, r *Rating) error
	// DeleteBetween removes every rating author left for recipient and reports how many.
	DeleteBetween(ctx context.Context, authorID, recipientID uint) (int64, error)
	SummaryFor(ctx context.Context, recipientID uint) (*Summary, error)
}
