package models

import "time"

// RatingModel represents the database model for user ratings
type RatingModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"type:varchar(100);not null"`
	Score       int       `gorm:"column:rating;type:integer;not null;check:rating >= 0 AND rating <= 5"`
	Comment     string    `gorm:"type:text;not null"`
	AuthorID    uint      `gorm:"not null;index"`
	RecipientID uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`

	// Relations
	Author    *UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Recipient *UserModel `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
}

func (RatingModel) TableName() string {
	return "ratings"
}
