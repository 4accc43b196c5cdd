package models

import "time"

// ListingModel represents the database model for trip posts
type ListingModel struct {
	ID             uint      `gorm:"primaryKey"`
	Title          string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	OwnerID        uint      `gorm:"not null;index"`
	DepartTime     string    `gorm:"type:varchar(8);not null"`
	ArrivalTime    string    `gorm:"type:varchar(8);not null"`
	DepartPlace    string    `gorm:"type:varchar(70);not null;index:idx_listings_route"`
	ArrivalPlace   string    `gorm:"type:varchar(70);not null;index:idx_listings_route"`
	Price          float64   `gorm:"type:decimal(10,2);not null"`
	Seats          int       `gorm:"not null;default:1"`
	Smoker         bool      `gorm:"default:false;not null"`
	AnimalsAllowed bool      `gorm:"default:false;not null"`
	Reserved       bool      `gorm:"default:false;not null;index"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`

	// Relations
	Owner *UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (ListingModel) TableName() string {
	return "listings"
}

// HistoryModel is one reservation of a listing. ListingID becomes NULL
// when the listing is deleted so the visitor keeps the record.
type HistoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	ListingID *uint     `gorm:"index"`
	VisitorID uint      `gorm:"not null;index"`
	VisitedAt time.Time `gorm:"type:date;not null;index"`

	Listing *ListingModel `gorm:"foreignKey:ListingID;constraint:OnDelete:SET NULL"`
	Visitor *UserModel    `gorm:"foreignKey:VisitorID;constraint:OnDelete:CASCADE"`
}

func (HistoryModel) TableName() string {
	return "histories"
}
