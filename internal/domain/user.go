package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Places       []int64 // owned place IDs in creation order
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// AddPlace appends placeID to the user's place collection.
	AddPlace(ctx context.Context, userID, placeID int64) error
	// RemovePlace detaches every reference to placeID from the user's collection.
	RemovePlace(ctx context.Context, userID, placeID int64) error
}
