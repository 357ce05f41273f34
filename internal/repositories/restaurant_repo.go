package repositories

import (
	"context"

	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type RestaurantRepository interface {
	List(ctx context.Context) ([]*models.Restaurant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error)
	// GetMenuItems returns the live catalog rows for ids, in no particular order.
	GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	// ListSummaries returns every restaurant with its owner and counts.
	ListSummaries(ctx context.Context) ([]*models.RestaurantSummary, error)
}

type restaurantRepo struct {
	db Database
}

func NewRestaurantRepo(db Database) RestaurantRepository {
	return &restaurantRepo{db: db}
}

const restaurantColumns = `id, owner_id, name, description, address, image_url, category, is_open, lat, lng, created_at`

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	rest := &models.Restaurant{}
	err := row.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.Description, &rest.Address, &rest.ImageURL,
		&rest.Category, &rest.IsOpen, &rest.Lat, &rest.Lng, &rest.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rest, nil
}

func (r *restaurantRepo) List(ctx context.Context) ([]*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query restaurants")
	}
	defer rows.Close()

	out := []*models.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan restaurant")
		}
		out = append(out, rest)
	}
	return out, errors.Wrap(rows.Err(), "iterate restaurants")
}

func (r *restaurantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	rest, err := scanRestaurant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateNoRows(err, ErrNotFound)
	}
	return rest, nil
}

const menuItemColumns = `id, restaurant_id, name, description, price_cents, image_url, is_available`

func (r *restaurantRepo) ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE restaurant_id = $1 ORDER BY name`
	return r.queryMenu(ctx, query, restaurantID)
}

func (r *restaurantRepo) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ANY($1)`
	return r.queryMenu(ctx, query, ids)
}

func (r *restaurantRepo) queryMenu(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query menu items")
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.PriceCents, &m.ImageURL, &m.IsAvailable); err != nil {
			return nil, errors.Wrap(err, "scan menu item")
		}
		items = append(items, m)
	}
	return items, errors.Wrap(rows.Err(), "iterate menu items")
}

func (r *restaurantRepo) ListSummaries(ctx context.Context) ([]*models.RestaurantSummary, error) {
	query := `
		SELECT r.id, r.owner_id, r.name, r.description, r.address, r.image_url, r.category, r.is_open, r.lat, r.lng, r.created_at,
			u.name, u.phone,
			(SELECT COUNT(*) FROM orders o WHERE o.restaurant_id = r.id),
			(SELECT COUNT(*) FROM menu_items m WHERE m.restaurant_id = r.id)
		FROM restaurants r
		JOIN users u ON u.id = r.owner_id
		ORDER BY r.name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query restaurant summaries")
	}
	defer rows.Close()

	out := []*models.RestaurantSummary{}
	for rows.Next() {
		rest := &models.Restaurant{}
		summary := &models.RestaurantSummary{Restaurant: rest}
		err := rows.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.Description, &rest.Address, &rest.ImageURL,
			&rest.Category, &rest.IsOpen, &rest.Lat, &rest.Lng, &rest.CreatedAt,
			&summary.Owner.Name, &summary.Owner.Phone, &summary.OrderCount, &summary.MenuCount)
		if err != nil {
			return nil, errors.Wrap(err, "scan restaurant summary")
		}
		summary.Owner.ID = rest.OwnerID
		out = append(out, summary)
	}
	return out, errors.Wrap(rows.Err(), "iterate restaurant summaries")
}
