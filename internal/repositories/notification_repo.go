package repositories

import (
	"context"

	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListForUser returns unread notifications first, newest first within each group.
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	// ListAllForUser returns notifications newest first regardless of read state.
	ListAllForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepo struct {
	db Database
}

func NewNotificationRepo(db Database) NotificationRepository {
	return &notificationRepo{db: db}
}

const notificationColumns = `id, user_id, type, title, message, order_id, read, created_at`

func scanNotification(row pgx.Row) (*models.Notification, error) {
	n := &models.Notification{}
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.OrderID, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, order_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.OrderID, n.Read, n.CreatedAt)
	return errors.Wrap(err, "insert notification")
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY read ASC, created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, userID, limit)
}

func (r *notificationRepo) ListAllForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, userID, limit)
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	query := `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING ` + notificationColumns
	n, err := scanNotification(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, translateNoRows(err, ErrNotFound)
	}
	return n, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, errors.Wrap(err, "mark notifications read")
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepo) list(ctx context.Context, query string, args ...any) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query notifications")
	}
	defer rows.Close()

	out := []*models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan notification")
		}
		out = append(out, n)
	}
	return out, errors.Wrap(rows.Err(), "iterate notifications")
}
