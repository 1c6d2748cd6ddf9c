package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/placeshare/internal/domain"
	"github.com/msomdec/placeshare/internal/repository/sqlite"
	"github.com/msomdec/placeshare/internal/service"
)

// fakeGeocoder resolves only the addresses it knows.
type fakeGeocoder struct {
	known map[string]domain.Location
	calls int
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	g.calls++
	loc, ok := g.known[address]
	if !ok {
		return domain.Location{}, domain.NewError(domain.KindGeocode, "Could not find location for the specified address.")
	}
	return loc, nil
}

// refusingTx runs the work inside a real transaction and then forces a rollback.
type refusingTx struct {
	db *sqlite.DB
}

func (r refusingTx) WithinTx(ctx context.Context, fn func(domain.PlaceRepository, domain.UserRepository) error) error {
	return r.db.WithinTx(ctx, func(places domain.PlaceRepository, users domain.UserRepository) error {
		if err := fn(places, users); err != nil {
			return err
		}
		return errors.New("commit refused")
	})
}

const googleplex = "1600 Amphitheatre Parkway"

type placeFixture struct {
	db     *sqlite.DB
	svc    *service.PlaceService
	images *service.ImageService
	geo    *fakeGeocoder
}

func newPlaceFixture(t *testing.T) *placeFixture {
	t.Helper()
	db := newTestDB(t)
	geo := &fakeGeocoder{known: map[string]domain.Location{
		googleplex: {Lat: "37.4224", Lng: "-122.0842"},
	}}
	images := service.NewImageService(db.FileStore())
	return &placeFixture{
		db:     db,
		svc:    service.NewPlaceService(db.Places(), db.Users(), db, images, geo),
		images: images,
		geo:    geo,
	}
}

func seedUser(t *testing.T, db *sqlite.DB, email string) int64 {
	t.Helper()
	u := &domain.User{Name: "Test", Email: email, PasswordHash: "hash"}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func validCreateInput() service.CreatePlaceInput {
	return service.CreatePlaceInput{
		Title:       "Googleplex",
		Description: "Google headquarters",
		Address:     googleplex,
		Image:       &service.ImageUpload{Filename: "g.png", ContentType: "image/png", Data: []byte("png bytes")},
	}
}

func samePlace(a, b *domain.Place) bool {
	return a.ID == b.ID && a.Title == b.Title && a.Description == b.Description &&
		a.Address == b.Address && a.Location == b.Location && a.Image == b.Image &&
		a.CreatorID == b.CreatorID && a.CreatedAt.Equal(b.CreatedAt) && a.UpdatedAt.Equal(b.UpdatedAt)
}

func imageName(key string) string {
	return strings.TrimPrefix(key, "uploads/images/")
}

func (f *placeFixture) createPlace(t *testing.T, userID int64) *domain.Place {
	t.Helper()
	place, err := f.svc.Create(context.Background(), userID, validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return place
}

func TestPlaceService_Create_Success(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.db, "create@example.com")

	place := f.createPlace(t, userID)

	if place.ID == 0 {
		t.Fatal("expected place ID to be set")
	}
	if place.Location != (domain.Location{Lat: "37.4224", Lng: "-122.0842"}) {
		t.Fatalf("expected geocoded location, got %+v", place.Location)
	}
	if place.CreatorID != userID {
		t.Fatalf("expected creator %d, got %d", userID, place.CreatorID)
	}

	user, err := f.db.Users().GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(user.Places) != 1 || user.Places[0] != place.ID {
		t.Fatalf("expected user places [%d], got %v", place.ID, user.Places)
	}

	data, err := f.images.Get(ctx, imageName(place.Image))
	if err != nil {
		t.Fatalf("stored image: %v", err)
	}
	if string(data) != "png bytes" {
		t.Fatalf("unexpected image bytes %q", data)
	}
}

func TestPlaceService_Create_InvalidInput(t *testing.T) {
	f := newPlaceFixture(t)
	userID := seedUser(t, f.db, "invalid@example.com")

	cases := map[string]func(in *service.CreatePlaceInput){
		"empty title":       func(in *service.CreatePlaceInput) { in.Title = "" },
		"short description": func(in *service.CreatePlaceInput) { in.Description = "abcd" },
		"empty address":     func(in *service.CreatePlaceInput) { in.Address = "" },
		"missing image":     func(in *service.CreatePlaceInput) { in.Image = nil },
		"gif image":         func(in *service.CreatePlaceInput) { in.Image.ContentType = "image/gif" },
		"oversized image":   func(in *service.CreatePlaceInput) { in.Image.Data = make([]byte, 500_001) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validCreateInput()
			mutate(&in)
			_, err := f.svc.Create(context.Background(), userID, in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if f.geo.calls != 0 {
		t.Fatalf("expected no geocoding for invalid input, got %d calls", f.geo.calls)
	}
}

func TestPlaceService_Create_ZeroResultsMutatesNothing(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.db, "zero@example.com")

	in := validCreateInput()
	in.Address = "Nowhere at all"
	_, err := f.svc.Create(ctx, userID, in)
	if !errors.Is(err, domain.ErrGeocode) {
		t.Fatalf("expected ErrGeocode, got %v", err)
	}
	if err.Error() != "Could not find location for the specified address." {
		t.Fatalf("expected geocoder error passed through, got %q", err.Error())
	}

	places, err := f.db.Places().ListByCreator(ctx, userID)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("expected no places, got %d", len(places))
	}
	user, err := f.db.Users().GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(user.Places) != 0 {
		t.Fatalf("expected empty place collection, got %v", user.Places)
	}
}

func TestPlaceService_Create_UnknownUser(t *testing.T) {
	f := newPlaceFixture(t)

	_, err := f.svc.Create(context.Background(), 99999, validCreateInput())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceService_Create_RollsBackBothWrites(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.db, "rollback@example.com")
	svc := service.NewPlaceService(f.db.Places(), f.db.Users(), refusingTx{db: f.db}, f.images, f.geo)

	_, err := svc.Create(ctx, userID, validCreateInput())
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if err.Error() != "Creating place failed, try again!" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	places, err := f.db.Places().ListByCreator(ctx, userID)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("expected rolled back place, got %d", len(places))
	}
	user, err := f.db.Users().GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(user.Places) != 0 {
		t.Fatalf("expected empty place collection, got %v", user.Places)
	}

	var blobs int
	if err := f.db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM file_blobs").Scan(&blobs); err != nil {
		t.Fatalf("count blobs: %v", err)
	}
	if blobs != 0 {
		t.Fatalf("expected stored image to be removed, found %d blobs", blobs)
	}
}

func TestPlaceService_GetByID(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	place := f.createPlace(t, seedUser(t, f.db, "get@example.com"))

	first, err := f.svc.GetByID(ctx, place.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	second, err := f.svc.GetByID(ctx, place.ID)
	if err != nil {
		t.Fatalf("second GetByID: %v", err)
	}
	if !samePlace(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if first.Title != place.Title || first.Location != place.Location {
		t.Fatalf("unexpected place %+v", first)
	}

	if _, err := f.svc.GetByID(ctx, 424242); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceService_ListByUser(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.db, "list@example.com")

	if _, err := f.svc.ListByUser(ctx, userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user without places, got %v", err)
	}

	a := f.createPlace(t, userID)
	b := f.createPlace(t, userID)
	f.createPlace(t, seedUser(t, f.db, "someone@example.com"))

	places, err := f.svc.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(places) != 2 || places[0].ID != a.ID || places[1].ID != b.ID {
		t.Fatalf("expected places [%d %d], got %+v", a.ID, b.ID, places)
	}
}

func TestPlaceService_Update(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	ownerID := seedUser(t, f.db, "owner@example.com")
	place := f.createPlace(t, ownerID)

	updated, err := f.svc.Update(ctx, ownerID, place.ID, service.UpdatePlaceInput{Title: "New title", Description: "New description"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "New title" || updated.Description != "New description" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.Location != place.Location || updated.Address != place.Address {
		t.Fatalf("expected location and address unchanged, got %+v", updated)
	}
}

func TestPlaceService_Update_NotCreator(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	place := f.createPlace(t, seedUser(t, f.db, "owner@example.com"))
	intruderID := seedUser(t, f.db, "intruder@example.com")

	_, err := f.svc.Update(ctx, intruderID, place.ID, service.UpdatePlaceInput{Title: "Hijacked", Description: "Hijacked place"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	got, err := f.db.Places().GetByID(ctx, place.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != place.Title || got.Description != place.Description {
		t.Fatalf("expected no mutation, got %+v", got)
	}
}

func TestPlaceService_Update_MissingPlaceAndInvalidInput(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	userID := seedUser(t, f.db, "u@example.com")

	_, err := f.svc.Update(ctx, userID, 424242, service.UpdatePlaceInput{Title: "T", Description: "Long enough"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = f.svc.Update(ctx, userID, 424242, service.UpdatePlaceInput{Title: "T", Description: "tiny"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlaceService_Delete(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	ownerID := seedUser(t, f.db, "owner@example.com")
	keep := f.createPlace(t, ownerID)
	place := f.createPlace(t, ownerID)

	if err := f.svc.Delete(ctx, ownerID, place.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	f.svc.Wait()

	if _, err := f.db.Places().GetByID(ctx, place.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected place to be gone, got %v", err)
	}
	user, err := f.db.Users().GetByID(ctx, ownerID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(user.Places) != 1 || user.Places[0] != keep.ID {
		t.Fatalf("expected only place %d to remain, got %v", keep.ID, user.Places)
	}
	if _, err := f.images.Get(ctx, imageName(place.Image)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected image to be removed, got %v", err)
	}
	if _, err := f.images.Get(ctx, imageName(keep.Image)); err != nil {
		t.Fatalf("expected other image to remain: %v", err)
	}
}

func TestPlaceService_Delete_NotCreator(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	ownerID := seedUser(t, f.db, "owner@example.com")
	place := f.createPlace(t, ownerID)
	intruderID := seedUser(t, f.db, "intruder@example.com")

	if err := f.svc.Delete(ctx, intruderID, place.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	f.svc.Wait()

	if _, err := f.db.Places().GetByID(ctx, place.ID); err != nil {
		t.Fatalf("expected place to remain: %v", err)
	}
	if _, err := f.images.Get(ctx, imageName(place.Image)); err != nil {
		t.Fatalf("expected image to remain: %v", err)
	}
}

func TestPlaceService_Delete_NotFound(t *testing.T) {
	f := newPlaceFixture(t)
	userID := seedUser(t, f.db, "u@example.com")

	if err := f.svc.Delete(context.Background(), userID, 424242); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceService_Delete_MissingImageIsNotAnError(t *testing.T) {
	f := newPlaceFixture(t)
	ctx := context.Background()
	ownerID := seedUser(t, f.db, "owner@example.com")
	place := f.createPlace(t, ownerID)

	if err := f.images.Remove(ctx, place.Image); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := f.svc.Delete(ctx, ownerID, place.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	f.svc.Wait()
}
