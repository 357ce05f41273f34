package repositories

import (
	"context"
	"time"

	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type OrderRepository interface {
	// Create inserts the order and its items in one transaction.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error)
	ListByRestaurantOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Order, error)
	ListByCourier(ctx context.Context, courierID uuid.UUID, statuses []models.OrderStatus) ([]*models.Order, error)
	ListAll(ctx context.Context, limit int) ([]*models.Order, error)
	ListAvailable(ctx context.Context, statuses []models.OrderStatus) ([]*models.Order, error)
	// ListAssigned returns every order that has a courier, newest first.
	ListAssigned(ctx context.Context) ([]*models.Order, error)
	// UpdateStatusIfCurrent writes target only while the row still holds expected.
	UpdateStatusIfCurrent(ctx context.Context, id uuid.UUID, expected, target models.OrderStatus) (*models.Order, error)
	// ClaimIfUnassigned binds courierID only while the row has no courier and a claimable status.
	ClaimIfUnassigned(ctx context.Context, id, courierID uuid.UUID, claimable []models.OrderStatus) (*models.Order, error)
	// ArchiveDeliveredIdle moves DELIVERED orders untouched for at least dwell
	// to ARCHIVED. Idle time is measured on the database clock.
	ArchiveDeliveredIdle(ctx context.Context, dwell time.Duration) ([]*models.Order, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `o.id, o.customer_id, o.restaurant_id, o.courier_id, o.status, o.delivery_address, o.delivery_lat, o.delivery_lng, o.total_cents, o.created_at, o.updated_at, r.owner_id`

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.CourierID, &o.Status, &o.DeliveryAddress,
		&o.DeliveryLat, &o.DeliveryLng, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt, &o.RestaurantOwnerID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin order transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (id, customer_id, restaurant_id, status, delivery_address, delivery_lat, delivery_lng, total_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err = tx.Exec(ctx, query, order.ID, order.CustomerID, order.RestaurantID, order.Status, order.DeliveryAddress,
		order.DeliveryLat, order.DeliveryLng, order.TotalCents, order.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, menu_item_id, quantity, price_cents)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery, item.ID, order.ID, item.MenuItemID, item.Quantity, item.PriceCents); err != nil {
			return errors.Wrapf(err, "insert order item %s", item.MenuItemID)
		}
	}

	return errors.Wrap(tx.Commit(ctx), "commit order")
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.id = $1
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateNoRows(err, ErrNotFound)
	}
	if err := r.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query, customerID)
}

func (r *orderRepo) ListByRestaurantOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE r.owner_id = $1
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query, ownerID)
}

func (r *orderRepo) ListByCourier(ctx context.Context, courierID uuid.UUID, statuses []models.OrderStatus) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.courier_id = $1 AND o.status = ANY($2)
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query, courierID, models.StatusStrings(statuses))
}

func (r *orderRepo) ListAll(ctx context.Context, limit int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		ORDER BY o.created_at DESC
		LIMIT $1
	`
	return r.list(ctx, query, limit)
}

// ListAvailable returns unclaimed orders oldest first.
func (r *orderRepo) ListAvailable(ctx context.Context, statuses []models.OrderStatus) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.courier_id IS NULL AND o.status = ANY($1)
		ORDER BY o.created_at ASC
	`
	return r.list(ctx, query, models.StatusStrings(statuses))
}

func (r *orderRepo) ListAssigned(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.courier_id IS NOT NULL
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query)
}

func (r *orderRepo) UpdateStatusIfCurrent(ctx context.Context, id uuid.UUID, expected, target models.OrderStatus) (*models.Order, error) {
	query := `
		WITH o AS (
			UPDATE orders SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING *
		)
		SELECT ` + orderColumns + `
		FROM o
		JOIN restaurants r ON r.id = o.restaurant_id
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, target, id, expected))
	if err != nil {
		return nil, translateNoRows(err, ErrConditionFailed)
	}
	return order, nil
}

func (r *orderRepo) ClaimIfUnassigned(ctx context.Context, id, courierID uuid.UUID, claimable []models.OrderStatus) (*models.Order, error) {
	query := `
		WITH o AS (
			UPDATE orders SET courier_id = $1, updated_at = NOW()
			WHERE id = $2 AND courier_id IS NULL AND status = ANY($3)
			RETURNING *
		)
		SELECT ` + orderColumns + `
		FROM o
		JOIN restaurants r ON r.id = o.restaurant_id
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, courierID, id, models.StatusStrings(claimable)))
	if err != nil {
		return nil, translateNoRows(err, ErrConditionFailed)
	}
	return order, nil
}

func (r *orderRepo) ArchiveDeliveredIdle(ctx context.Context, dwell time.Duration) ([]*models.Order, error) {
	query := `
		WITH o AS (
			UPDATE orders SET status = $1, updated_at = NOW()
			WHERE status = $2 AND updated_at <= NOW() - make_interval(secs => $3)
			RETURNING *
		)
		SELECT ` + orderColumns + `
		FROM o
		JOIN restaurants r ON r.id = o.restaurant_id
	`
	rows, err := r.db.Query(ctx, query, models.OrderStatusArchived, models.OrderStatusDelivered, dwell.Seconds())
	if err != nil {
		return nil, errors.Wrap(err, "archive delivered orders")
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) list(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	orders, err := collectOrders(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		orders = append(orders, order)
	}
	return orders, errors.Wrap(rows.Err(), "iterate orders")
}

func (r *orderRepo) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []models.OrderItem{}
	}

	query := `
		SELECT id, order_id, menu_item_id, quantity, price_cents
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return errors.Wrap(err, "query order items")
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.PriceCents); err != nil {
			return errors.Wrap(err, "scan order item")
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return errors.Wrap(rows.Err(), "iterate order items")
}
