package repositories

import (
	"context"

	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// List returns users oldest first. An empty role lists everyone.
	List(ctx context.Context, role models.Role) ([]*models.User, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, phone, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, user.ID, user.Phone, user.Name, user.Role, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return errors.Wrap(err, "insert user")
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, phone, name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Phone, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateNoRows(err, ErrNotFound)
	}
	return user, nil
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, phone, name, role, password_hash, created_at, updated_at
		FROM users
		WHERE phone = $1
	`
	err := r.db.QueryRow(ctx, query, phone).Scan(&user.ID, &user.Phone, &user.Name, &user.Role, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateNoRows(err, ErrNotFound)
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `
		SELECT id, phone, name, role, created_at, updated_at
		FROM users
		WHERE $1::text = '' OR role = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, string(role))
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Phone, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, user)
	}
	return users, errors.Wrap(rows.Err(), "iterate users")
}
