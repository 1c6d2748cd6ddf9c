package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/placeshare/internal/domain"
)

// placeRepo implements domain.PlaceRepository using SQLite.
type placeRepo struct {
	db querier
}

const placeColumns = `id, title, description, address, lat, lng, image, creator_id, created_at, updated_at`

func scanPlace(row interface{ Scan(...any) error }, p *domain.Place) error {
	return row.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Location.Lat, &p.Location.Lng,
		&p.Image, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *placeRepo) Create(ctx context.Context, place *domain.Place) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO places (title, description, address, lat, lng, image, creator_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		place.Title, place.Description, place.Address, place.Location.Lat, place.Location.Lng,
		place.Image, place.CreatorID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert place: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	place.ID = id
	place.CreatedAt = now
	place.UpdatedAt = now
	return nil
}

func (r *placeRepo) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	p := &domain.Place{}
	err := scanPlace(r.db.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE id = ?`, id), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get place: %w", err)
	}
	return p, nil
}

func (r *placeRepo) ListByCreator(ctx context.Context, userID int64) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE creator_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		if err := scanPlace(rows, &p); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (r *placeRepo) Update(ctx context.Context, place *domain.Place) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE places SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		place.Title, place.Description, now, place.ID,
	)
	if err != nil {
		return fmt.Errorf("update place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	place.UpdatedAt = now
	return nil
}

func (r *placeRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM places WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
