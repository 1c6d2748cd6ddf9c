package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/msomdec/placeshare/internal/domain"
)

// PlaceService implements lookup, creation, update, and deletion of places.
// Each call is independent; the only shared state is the set of pending
// image cleanups started by Delete.
type PlaceService struct {
	places   domain.PlaceRepository
	users    domain.UserRepository
	tx       domain.Transactor
	images   *ImageService
	geocoder domain.Geocoder

	cleanups sync.WaitGroup
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(places domain.PlaceRepository, users domain.UserRepository, tx domain.Transactor, images *ImageService, geocoder domain.Geocoder) *PlaceService {
	return &PlaceService{
		places:   places,
		users:    users,
		tx:       tx,
		images:   images,
		geocoder: geocoder,
	}
}

// CreatePlaceInput carries the fields of a new place.
type CreatePlaceInput struct {
	Title       string       `validate:"required"`
	Description string       `validate:"min=5"`
	Address     string       `validate:"required"`
	Image       *ImageUpload `validate:"required"`
}

// UpdatePlaceInput carries the mutable fields of a place.
type UpdatePlaceInput struct {
	Title       string `validate:"required"`
	Description string `validate:"min=5"`
}

// GetByID returns a single place.
func (s *PlaceService) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	place, err := s.places.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "Could not find a place for the provided id!")
		}
		slog.Error("get place", "id", id, "error", err)
		return nil, domain.NewError(domain.KindInternal, "Something went wrong!")
	}
	return place, nil
}

// ListByUser returns the places created by userID in creation order.
// A user without places is reported as not found.
func (s *PlaceService) ListByUser(ctx context.Context, userID int64) ([]domain.Place, error) {
	places, err := s.places.ListByCreator(ctx, userID)
	if err != nil {
		slog.Error("list places by user", "user_id", userID, "error", err)
		return nil, domain.NewError(domain.KindInternal, "Fetching places failed!")
	}
	if len(places) == 0 {
		return nil, domain.NewError(domain.KindNotFound, "Could not find places for the provided user id!")
	}
	return places, nil
}

// Create geocodes the address, stores the image, and persists the place
// together with its entry in the creator's place collection.
func (s *PlaceService) Create(ctx context.Context, callerID int64, in CreatePlaceInput) (*domain.Place, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	location, err := s.geocoder.Geocode(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	place := &domain.Place{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    location,
		CreatorID:   callerID,
	}

	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "Could not find user for the provided id.")
		}
		slog.Error("get place creator", "user_id", callerID, "error", err)
		return nil, errCreateFailed
	}

	place.Image, err = s.images.Store(ctx, in.Image)
	if err != nil {
		slog.Error("store place image", "error", err)
		return nil, errCreateFailed
	}

	err = s.tx.WithinTx(ctx, func(places domain.PlaceRepository, users domain.UserRepository) error {
		if err := places.Create(ctx, place); err != nil {
			return err
		}
		return users.AddPlace(ctx, user.ID, place.ID)
	})
	if err != nil {
		slog.Error("create place", "user_id", user.ID, "error", err)
		if rmErr := s.images.Remove(context.WithoutCancel(ctx), place.Image); rmErr != nil {
			slog.Warn("remove orphaned place image", "key", place.Image, "error", rmErr)
		}
		return nil, errCreateFailed
	}

	return place, nil
}

// Update replaces the title and description of a place owned by callerID.
func (s *PlaceService) Update(ctx context.Context, callerID, placeID int64, in UpdatePlaceInput) (*domain.Place, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "Could not find a place for the provided id!")
		}
		slog.Error("get place for update", "id", placeID, "error", err)
		return nil, domain.NewError(domain.KindInternal, "Something went wrong!")
	}

	if place.CreatorID != callerID {
		return nil, domain.NewError(domain.KindUnauthorized, "You are not allowed to edit this place!")
	}

	place.Title = in.Title
	place.Description = in.Description
	if err := s.places.Update(ctx, place); err != nil {
		slog.Error("update place", "id", placeID, "error", err)
		return nil, domain.NewError(domain.KindInternal, "Something went wrong!")
	}
	return place, nil
}

// Delete removes a place owned by callerID and detaches it from the
// creator's collection. The image is removed in the background.
func (s *PlaceService) Delete(ctx context.Context, callerID, placeID int64) error {
	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.KindNotFound, "Could not find a place for this id.")
		}
		slog.Error("get place for delete", "id", placeID, "error", err)
		return errDeleteFailed
	}

	creator, err := s.users.GetByID(ctx, place.CreatorID)
	if err != nil {
		slog.Error("get place creator for delete", "id", placeID, "user_id", place.CreatorID, "error", err)
		return errDeleteFailed
	}

	if creator.ID != callerID {
		return domain.NewError(domain.KindUnauthorized, "You are not allowed to delete this place!")
	}

	imageKey := place.Image

	err = s.tx.WithinTx(ctx, func(places domain.PlaceRepository, users domain.UserRepository) error {
		if err := places.Delete(ctx, place.ID); err != nil {
			return err
		}
		return users.RemovePlace(ctx, creator.ID, place.ID)
	})
	if err != nil {
		slog.Error("delete place", "id", placeID, "error", err)
		return errDeleteFailed
	}

	s.cleanups.Add(1)
	go func() {
		defer s.cleanups.Done()
		if err := s.images.Remove(context.WithoutCancel(ctx), imageKey); err != nil {
			slog.Warn("remove place image", "key", imageKey, "error", err)
		}
	}()

	return nil
}

// Wait blocks until every image cleanup started by Delete has finished.
func (s *PlaceService) Wait() {
	s.cleanups.Wait()
}

var (
	errCreateFailed = domain.NewError(domain.KindInternal, "Creating place failed, try again!")
	errDeleteFailed = domain.NewError(domain.KindInternal, "Something went wrong! Could not delete place.")
)
