package listing

import "time"

// Listing is a trip offer published by a driver or a client.
type Listing struct {
	ID             uint
	Title          string
	OwnerID        uint
	OwnerUsername  string
	DepartTime     string
	ArrivalTime    string
	DepartPlace    string
	ArrivalPlace   string
	Price          float64
	Seats          int
	Smoker         bool
	AnimalsAllowed bool
	Reserved       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (l *Listing) OwnedBy(userID uint) bool {
	return l.OwnerID == userID
}
