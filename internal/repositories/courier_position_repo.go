package repositories

import (
	"context"

	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type CourierPositionRepository interface {
	// Upsert overwrites the courier's single position row.
	Upsert(ctx context.Context, courierID uuid.UUID, lat, lng float64) (*models.CourierPosition, error)
	GetByCourierID(ctx context.Context, courierID uuid.UUID) (*models.CourierPosition, error)
	List(ctx context.Context) ([]*models.CourierPosition, error)
}

type courierPositionRepo struct {
	db Database
}

func NewCourierPositionRepo(db Database) CourierPositionRepository {
	return &courierPositionRepo{db: db}
}

func (r *courierPositionRepo) Upsert(ctx context.Context, courierID uuid.UUID, lat, lng float64) (*models.CourierPosition, error) {
	query := `
		INSERT INTO courier_positions (courier_id, lat, lng, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (courier_id) DO UPDATE SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, updated_at = NOW()
		RETURNING courier_id, lat, lng, updated_at
	`
	pos := &models.CourierPosition{}
	err := r.db.QueryRow(ctx, query, courierID, lat, lng).Scan(&pos.CourierID, &pos.Lat, &pos.Lng, &pos.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "upsert courier position")
	}
	return pos, nil
}

func (r *courierPositionRepo) GetByCourierID(ctx context.Context, courierID uuid.UUID) (*models.CourierPosition, error) {
	query := `SELECT courier_id, lat, lng, updated_at FROM courier_positions WHERE courier_id = $1`
	pos := &models.CourierPosition{}
	err := r.db.QueryRow(ctx, query, courierID).Scan(&pos.CourierID, &pos.Lat, &pos.Lng, &pos.UpdatedAt)
	if err != nil {
		return nil, translateNoRows(err, ErrNotFound)
	}
	return pos, nil
}

func (r *courierPositionRepo) List(ctx context.Context) ([]*models.CourierPosition, error) {
	rows, err := r.db.Query(ctx, `SELECT courier_id, lat, lng, updated_at FROM courier_positions`)
	if err != nil {
		return nil, errors.Wrap(err, "query courier positions")
	}
	defer rows.Close()

	out := []*models.CourierPosition{}
	for rows.Next() {
		pos := &models.CourierPosition{}
		if err := rows.Scan(&pos.CourierID, &pos.Lat, &pos.Lng, &pos.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan courier position")
		}
		out = append(out, pos)
	}
	return out, errors.Wrap(rows.Err(), "iterate courier positions")
}
