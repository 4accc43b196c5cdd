package listing

import (
	"context"
	"strconv"
)

// Ref identifies a listing either by id or by its unique title. Title lookups
// back the older routes.
type Ref struct {
	ID    uint
	Title string
}

func ByID(id uint) Ref { return Ref{ID: id} }

func ByTitle(title string) Ref { return Ref{Title: title} }

func (r Ref) String() string {
	if r.Title != "" {
		return r.Title
	}
	return strconv.FormatUint(uint64(r.ID), 10)
}

// Find resolves ref against repo.
func Find(ctx context.Context, repo Repository, ref Ref) (*Listing, error) {
	if ref.Title != "" {
		return repo.GetByTitle(ctx, ref.Title)
	}
	return repo.GetByID(ctx, ref.ID)
}
