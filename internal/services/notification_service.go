package services

import (
	"context"
	"time"

	"foodgo/internal/common"
	"foodgo/internal/models"
	"foodgo/internal/realtime"
	"foodgo/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	notificationListLimit    = 50
	notificationListAllLimit = 200
)

// NotificationService persists targeted notifications and pushes them to the user's room.
type NotificationService interface {
	// Notify stores the record first, then emits it. The record survives
	// even if no socket is listening.
	Notify(ctx context.Context, userID uuid.UUID, in models.NotifyInput) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repo      repositories.NotificationRepository
	publisher realtime.Publisher
	now       func() time.Time
}

func NewNotificationService(repo repositories.NotificationRepository, publisher realtime.Publisher) NotificationService {
	return &notificationService{repo: repo, publisher: publisher, now: time.Now}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, in models.NotifyInput) (*models.Notification, error) {
	typ := in.Type
	if typ == "" {
		typ = models.NotificationTypeInfo
	}
	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     in.Title,
		Message:   in.Message,
		OrderID:   in.OrderID,
		Read:      false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, errors.Wrap(err, "persist notification")
	}

	if err := s.publisher.ToRoom(ctx, common.UserRoom(userID), realtime.EventNotify, n); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to emit notification")
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return s.repo.ListForUser(ctx, userID, notificationListLimit)
}

func (s *notificationService) ListAll(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return s.repo.ListAllForUser(ctx, userID, notificationListAllLimit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	n, err := s.repo.MarkRead(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NewNotFoundError("notification")
	}
	return n, err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := s.repo.MarkAllRead(ctx, userID)
	return err
}
