package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/placeshare/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &domain.User{Name: "Test User", Email: "test@example.com", PasswordHash: "hashedpw"}
	if err := db.Users().Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "dup@example.com")

	err := db.Users().Create(ctx, &domain.User{Name: "User 2", Email: "dup@example.com", PasswordHash: "hash2"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), 99999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "byemail@example.com")

	found, err := db.Users().GetByEmail(context.Background(), "byemail@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if found.ID != user.ID {
		t.Fatalf("expected id %d, got %d", user.ID, found.ID)
	}
	if len(found.Places) != 0 {
		t.Fatalf("expected no places, got %v", found.Places)
	}
}

func TestUserRepository_PlaceCollectionOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "order@example.com")

	var ids []int64
	for _, title := range []string{"first", "second", "third"} {
		p := &domain.Place{Title: title, Description: "Desc.", Address: "A", Image: "k", CreatorID: user.ID}
		if err := db.Places().Create(ctx, p); err != nil {
			t.Fatalf("create place: %v", err)
		}
		if err := db.Users().AddPlace(ctx, user.ID, p.ID); err != nil {
			t.Fatalf("AddPlace: %v", err)
		}
		ids = append(ids, p.ID)
	}

	if err := db.Users().RemovePlace(ctx, user.ID, ids[1]); err != nil {
		t.Fatalf("RemovePlace: %v", err)
	}

	got, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Places) != 2 || got.Places[0] != ids[0] || got.Places[1] != ids[2] {
		t.Fatalf("expected places [%d %d], got %v", ids[0], ids[2], got.Places)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "a@example.com")
	seedUser(t, db, "b@example.com")

	users, err := db.Users().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Email != "a@example.com" {
		t.Fatalf("expected first user a@example.com, got %s", users[0].Email)
	}
}
