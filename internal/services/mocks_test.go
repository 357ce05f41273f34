package services

import (
	"context"
	"sync"
	"time"

	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByRestaurantOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCourier(ctx context.Context, courierID uuid.UUID, statuses []models.OrderStatus) ([]*models.Order, error) {
	args := m.Called(ctx, courierID, statuses)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context, limit int) ([]*models.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAvailable(ctx context.Context, statuses []models.OrderStatus) ([]*models.Order, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAssigned(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusIfCurrent(ctx context.Context, id uuid.UUID, expected, target models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, expected, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ClaimIfUnassigned(ctx context.Context, id, courierID uuid.UUID, claimable []models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, courierID, claimable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ArchiveDeliveredIdle(ctx context.Context, dwell time.Duration) ([]*models.Order, error) {
	args := m.Called(ctx, dwell)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) List(ctx context.Context) ([]*models.Restaurant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func (m *MockRestaurantRepository) GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

func (m *MockRestaurantRepository) ListSummaries(ctx context.Context) ([]*models.RestaurantSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.RestaurantSummary), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockCourierPositionRepository struct {
	mock.Mock
}

func (m *MockCourierPositionRepository) Upsert(ctx context.Context, courierID uuid.UUID, lat, lng float64) (*models.CourierPosition, error) {
	args := m.Called(ctx, courierID, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourierPosition), args.Error(1)
}

func (m *MockCourierPositionRepository) GetByCourierID(ctx context.Context, courierID uuid.UUID) (*models.CourierPosition, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourierPosition), args.Error(1)
}

func (m *MockCourierPositionRepository) List(ctx context.Context) ([]*models.CourierPosition, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.CourierPosition), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, userID uuid.UUID, in models.NotifyInput) (*models.Notification, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationService) ListAll(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*models.Point, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Point), args.Error(1)
}

// emitted is one event captured by recordingPublisher. Room is empty for broadcasts.
type emitted struct {
	Room  string
	Event string
	Data  any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []emitted
	err    error
}

func (p *recordingPublisher) ToRoom(_ context.Context, room, event string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, emitted{Room: room, Event: event, Data: data})
	return p.err
}

func (p *recordingPublisher) Broadcast(_ context.Context, event string, data any) error {
	return p.ToRoom(context.Background(), "", event, data)
}

func (p *recordingPublisher) byEvent(event string) []emitted {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []emitted
	for _, e := range p.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListAllForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetGeocode(ctx context.Context, address string) (*models.Point, bool, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Point), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) SetGeocode(ctx context.Context, address string, point *models.Point, ttl time.Duration) error {
	args := m.Called(ctx, address, point, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ResetRateLimit(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
