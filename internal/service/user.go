package service

import (
	"context"
	"log/slog"

	"github.com/msomdec/placeshare/internal/domain"
)

// UserService exposes read access to user accounts.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every user with its owned place IDs.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		slog.Error("list users", "error", err)
		return nil, domain.NewError(domain.KindInternal, "Fetching users failed, please try again later.")
	}
	return users, nil
}
