package domain

import (
	"context"
	"time"
)

// Location is a coordinate pair kept in the textual form the geocoder returned.
type Location struct {
	Lat string
	Lng string
}

// Place is a shareable location owned by exactly one user.
type Place struct {
	ID          int64
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string // FileStore key of the uploaded image
	CreatorID   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlaceRepository defines persistence operations for places.
type PlaceRepository interface {
	Create(ctx context.Context, place *Place) error
	GetByID(ctx context.Context, id int64) (*Place, error)
	ListByCreator(ctx context.Context, userID int64) ([]Place, error)
	// Update persists title and description only.
	Update(ctx context.Context, place *Place) error
	Delete(ctx context.Context, id int64) error
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}
