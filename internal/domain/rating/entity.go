package rating

import "time"

const (
	MinScore = 0
	MaxScore = 5
)

// Rating is a scored comment one user leaves about another.
type Rating struct {
	ID                uint
	Title             string
	Score             int
	Comment           string
	AuthorID          uint
	AuthorUsername    string
	RecipientID       uint
	RecipientUsername string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Summary aggregates the ratings a user received.
type Summary struct {
	Average float64
	Count   int64
}
