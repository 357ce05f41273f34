package common

import (
	"context"
	"fmt"
	"strings"

	"foodgo/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	IdentityKey contextKey = "identity"
)

// Identity is the resolved caller of a request.
type Identity struct {
	ID   uuid.UUID
	Role models.Role
	Name string
}

// IsAdmin reports whether the caller bypasses role and relationship checks.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// WithIdentity stores the caller on ctx.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, identity)
	return context.WithValue(ctx, UserIDKey, identity.ID)
}

// IdentityFromContext returns the caller stored by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	return identity, ok
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// ValidateUUID parses a path or body identifier, returning a ValidationError on bad input.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError("%s must be a valid UUID", fieldName)
	}
	return id, nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OrderRoom names the real-time room of one order.
func OrderRoom(orderID uuid.UUID) string {
	return fmt.Sprintf("order:%s", orderID)
}

// UserRoom names the real-time room of one user.
func UserRoom(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}
