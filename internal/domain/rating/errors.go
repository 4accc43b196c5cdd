package rating

import "errors"

var (
	ErrRatingNotFound  = errors.New("rating not found")
	ErrScoreOutOfRange = errors.New("rating must be between 0 and 5")
)
