package rating

import (
	"time"

	domainRating "rideshare-backend/internal/domain/rating"
)

type CreateRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Rating  *int   `json:"rating" validate:"required"`
	Comment string `json:"comment" validate:"max=2000"`
}

type UpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=100"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// UserRef names a user by username or by email.
type UserRef struct {
	Username string
	Email    string
}

func ByUsername(username string) UserRef { return UserRef{Username: username} }

func ByEmail(email string) UserRef { return UserRef{Email: email} }

type RatingResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	AuthorID    uint      `json:"author_id"`
	Author      string    `json:"author"`
	RecipientID uint      `json:"recipient_id"`
	Recipient   string    `json:"recipient"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReceivedResponse lists the ratings a user received with their average.
type ReceivedResponse struct {
	User    string            `json:"user"`
	Average float64           `json:"average"`
	Count   int64             `json:"count"`
	Ratings []*RatingResponse `json:"ratings"`
}

func ToRatingResponse(r *domainRating.Rating) *RatingResponse {
	return &RatingResponse{
		ID:          r.ID,
		Title:       r.Title,
		Rating:      r.Score,
		Comment:     r.Comment,
		AuthorID:    r.AuthorID,
		Author:      r.AuthorUsername,
		RecipientID: r.RecipientID,
		Recipient:   r.RecipientUsername,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRatingResponses(ratings []*domainRating.Rating) []*RatingResponse {
	out := make([]*RatingResponse, len(ratings))
	for i, r := range ratings {
		out[i] = ToRatingResponse(r)
	}
	return out
}
