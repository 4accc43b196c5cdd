package listing

import "context"

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id uint) (*Listing, error)
	GetByTitle(ctx context.Context, title string) (*Listing, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*Listing, error)
	// Search matches both places verbatim.
	Search(ctx context.Context, departPlace, arrivalPlace string) ([]*Listing, error)
	// Update writes every editable field. Reserved is never touched.
	Update(ctx context.Context, l *Listing) error
	Delete(ctx context.Context, id uint) error
}
