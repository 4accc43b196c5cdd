package listing

import "errors"

var (
	ErrListingNotFound = errors.New("trip not found")
	ErrTitleTaken      = errors.New("a trip with this title already exists")
	ErrNotOwner        = errors.New("only the owner can modify this trip")
)
