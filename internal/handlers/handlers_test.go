package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodgo/internal/common"
	"foodgo/internal/middleware"
	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, identity common.Identity, in *models.CreateOrderInput) (*models.Order, error) {
	args := m.Called(ctx, identity, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) Quote(ctx context.Context, restaurantID uuid.UUID, lines []models.OrderLine) (*models.Quote, error) {
	args := m.Called(ctx, restaurantID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockOrderService) ListMine(ctx context.Context, identity common.Identity) ([]*models.Order, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, identity common.Identity, id uuid.UUID) (*models.OrderDetail, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderDetail), args.Error(1)
}

func (m *MockOrderService) Transition(ctx context.Context, identity common.Identity, id uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, identity, id, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ArchiveDelivered(ctx context.Context, dwell time.Duration) ([]*models.Order, error) {
	args := m.Called(ctx, dwell)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockCourierService struct {
	mock.Mock
}

func (m *MockCourierService) AvailableOrders(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockCourierService) MyOrders(ctx context.Context, identity common.Identity) ([]*models.Order, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockCourierService) Claim(ctx context.Context, identity common.Identity, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, identity, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockCourierService) ReportPosition(ctx context.Context, identity common.Identity, report models.PositionReport) (*models.CourierPosition, error) {
	args := m.Called(ctx, identity, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourierPosition), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, userID uuid.UUID, in models.NotifyInput) (*models.Notification, error) {
	args := m.Called(ctx, userID, in)
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

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Users(ctx context.Context, identity common.Identity, role models.Role) ([]*models.User, error) {
	args := m.Called(ctx, identity, role)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockAdminService) Restaurants(ctx context.Context, identity common.Identity) ([]*models.RestaurantSummary, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]*models.RestaurantSummary), args.Error(1)
}

func (m *MockAdminService) Couriers(ctx context.Context, identity common.Identity) ([]*models.CourierOverview, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]*models.CourierOverview), args.Error(1)
}

func (m *MockAdminService) Orders(ctx context.Context, identity common.Identity) ([]*models.Order, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type stubGeocoder struct {
	point *models.Point
	err   error
}

func (g stubGeocoder) Geocode(context.Context, string) (*models.Point, error) {
	return g.point, g.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type tokenTable map[string]common.Identity

func (t tokenTable) ParseToken(token string) (common.Identity, error) {
	identity, ok := t[token]
	if !ok {
		return common.Identity{}, common.NewAuthenticationError("invalid token")
	}
	return identity, nil
}

type RoutesTestSuite struct {
	suite.Suite
	orders        *MockOrderService
	couriers      *MockCourierService
	notifications *MockNotificationService
	admin         *MockAdminService
	e             *echo.Echo

	customer common.Identity
	owner    common.Identity
	courier  common.Identity
	operator common.Identity
}

func (suite *RoutesTestSuite) SetupTest() {
	suite.orders = &MockOrderService{}
	suite.couriers = &MockCourierService{}
	suite.notifications = &MockNotificationService{}
	suite.admin = &MockAdminService{}
	suite.operator = common.Identity{ID: uuid.New(), Role: models.RoleAdmin}
	suite.customer = common.Identity{ID: uuid.New(), Role: models.RoleCustomer}
	suite.owner = common.Identity{ID: uuid.New(), Role: models.RoleOwner}
	suite.courier = common.Identity{ID: uuid.New(), Role: models.RoleCourier, Name: "Kit"}

	suite.e = echo.New()
	suite.e.Validator = common.NewRequestValidator()
	suite.e.HTTPErrorHandler = common.HTTPErrorHandler
	RegisterRoutes(suite.e, Routes{
		Orders:        NewOrderHandlers(suite.orders),
		Couriers:      NewCourierHandlers(suite.couriers),
		Notifications: NewNotificationHandlers(suite.notifications),
		Admin:         NewAdminHandlers(suite.admin),
		Geocode:       NewGeocodeHandlers(stubGeocoder{err: errors.New("upstream down")}),
		Uploads:       NewUploadHandlers(nil),
		Health:        NewHealthHandlers(map[string]Pinger{"database": stubPinger{}}, "test"),
		Authenticate: middleware.JWTMiddleware(tokenTable{
			"customer": suite.customer,
			"owner":    suite.owner,
			"courier":  suite.courier,
			"admin":    suite.operator,
		}),
	})
}

func (suite *RoutesTestSuite) TearDownTest() {
	suite.orders.AssertExpectations(suite.T())
	suite.couriers.AssertExpectations(suite.T())
	suite.notifications.AssertExpectations(suite.T())
	suite.admin.AssertExpectations(suite.T())
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

func (suite *RoutesTestSuite) request(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	suite.e.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func (suite *RoutesTestSuite) TestHealthIsPublic() {
	rec := suite.request(http.MethodGet, "/api/health", "", "")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.JSONEq(suite.T(), `{"ok":true}`, rec.Body.String())

	rec = suite.request(http.MethodGet, "/api/health/ready", "", "")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *RoutesTestSuite) TestOrdersRequireAuthentication() {
	rec := suite.request(http.MethodGet, "/api/orders/my", "", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *RoutesTestSuite) TestCreateOrder() {
	restaurantID, itemID := uuid.New(), uuid.New()
	created := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending, TotalCents: 1599}
	suite.orders.On("Create", mock.Anything, suite.customer, mock.MatchedBy(func(in *models.CreateOrderInput) bool {
		return in.RestaurantID == restaurantID && len(in.Items) == 1 && in.Items[0].Quantity == 2
	})).Return(created, nil)

	body := `{"restaurantId":"` + restaurantID.String() + `","items":[{"menuItemId":"` + itemID.String() + `","quantity":2}],"deliveryAddress":"Main Street 1"}`
	rec := suite.request(http.MethodPost, "/api/orders", "customer", body)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var got models.Order
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(suite.T(), int64(1599), got.TotalCents)
}

func (suite *RoutesTestSuite) TestCreateOrder_ValidationAndRole() {
	rec := suite.request(http.MethodPost, "/api/orders", "customer", `{"restaurantId":"`+uuid.NewString()+`","items":[],"deliveryAddress":"Main Street 1"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	rec = suite.request(http.MethodPost, "/api/orders", "owner", `{}`)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func (suite *RoutesTestSuite) TestQuotePreview_QuantityAboveLimit() {
	body := `{"restaurantId":"` + uuid.NewString() + `","items":[{"menuItemId":"` + uuid.NewString() + `","quantity":1001}]}`
	rec := suite.request(http.MethodPost, "/api/quotes/preview", "customer", body)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	suite.orders.AssertNotCalled(suite.T(), "Quote", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RoutesTestSuite) TestOwnerStatus() {
	id := uuid.New()
	suite.orders.On("Transition", mock.Anything, suite.owner, id, models.OrderStatusAccepted).
		Return(&models.Order{ID: id, Status: models.OrderStatusAccepted}, nil)

	rec := suite.request(http.MethodPatch, "/api/orders/"+id.String()+"/status/owner", "owner", `{"status":"ACCEPTED"}`)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodPatch, "/api/orders/"+id.String()+"/status/owner", "owner", `{"status":"PICKED_UP"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	rec = suite.request(http.MethodPatch, "/api/orders/"+id.String()+"/status/owner", "courier", `{"status":"ACCEPTED"}`)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func (suite *RoutesTestSuite) TestOwnerStatus_IllegalTransition() {
	id := uuid.New()
	suite.orders.On("Transition", mock.Anything, suite.owner, id, models.OrderStatusAccepted).
		Return(nil, &common.IllegalTransitionError{From: models.OrderStatusAccepted, To: models.OrderStatusAccepted})

	rec := suite.request(http.MethodPatch, "/api/orders/"+id.String()+"/status/owner", "owner", `{"status":"ACCEPTED"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), errorBody(suite.T(), rec), "ACCEPTED -> ACCEPTED")
}

func (suite *RoutesTestSuite) TestCourierStatusAlias() {
	id := uuid.New()
	suite.orders.On("Transition", mock.Anything, suite.courier, id, models.OrderStatusCanceled).
		Return(&models.Order{ID: id, Status: models.OrderStatusCanceled}, nil).Twice()

	rec := suite.request(http.MethodPatch, "/api/orders/"+id.String()+"/status/courier", "courier", `{"status":"CANCELED"}`)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	rec = suite.request(http.MethodPatch, "/api/couriers/orders/"+id.String()+"/status", "courier", `{"status":"CANCELED"}`)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *RoutesTestSuite) TestConfirmDelivered() {
	id := uuid.New()
	suite.orders.On("Transition", mock.Anything, suite.customer, id, models.OrderStatusDelivered).
		Return(&models.Order{ID: id, Status: models.OrderStatusDelivered}, nil)

	rec := suite.request(http.MethodPost, "/api/orders/"+id.String()+"/confirm-delivered", "customer", "")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *RoutesTestSuite) TestGetOrder_BadID() {
	rec := suite.request(http.MethodGet, "/api/orders/not-a-uuid", "customer", "")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *RoutesTestSuite) TestClaim() {
	id := uuid.New()
	suite.couriers.On("Claim", mock.Anything, suite.courier, id).
		Return(&models.Order{ID: id, CourierID: &suite.courier.ID, Status: models.OrderStatusAccepted}, nil).Once()
	suite.couriers.On("Claim", mock.Anything, suite.courier, id).
		Return(nil, &common.AlreadyAssignedError{OrderID: id}).Once()

	rec := suite.request(http.MethodPost, "/api/couriers/claim/"+id.String(), "courier", "")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.request(http.MethodPost, "/api/couriers/claim/"+id.String(), "courier", "")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), errorBody(suite.T(), rec), "already assigned")

	rec = suite.request(http.MethodPost, "/api/couriers/claim/"+id.String(), "customer", "")
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func (suite *RoutesTestSuite) TestReportPosition_Validates() {
	rec := suite.request(http.MethodPost, "/api/couriers/position", "courier", `{"lat":123,"lng":0}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	rec = suite.request(http.MethodPost, "/api/couriers/position", "courier", `{}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	rec = suite.request(http.MethodPost, "/api/couriers/position", "courier", `{"lat":52.5}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	lat, lng := 52.5, 13.4
	suite.couriers.On("ReportPosition", mock.Anything, suite.courier, models.PositionReport{Lat: &lat, Lng: &lng}).
		Return(&models.CourierPosition{CourierID: suite.courier.ID, Lat: 52.5, Lng: 13.4}, nil)
	rec = suite.request(http.MethodPost, "/api/couriers/position", "courier", `{"lat":52.5,"lng":13.4}`)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *RoutesTestSuite) TestNotifications() {
	suite.notifications.On("MarkAllRead", mock.Anything, suite.customer.ID).Return(nil)
	rec := suite.request(http.MethodPost, "/api/notifications/read-all", "customer", "")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.JSONEq(suite.T(), `{"ok":true}`, rec.Body.String())

	id := uuid.New()
	suite.notifications.On("MarkRead", mock.Anything, suite.customer.ID, id).Return(nil, common.NewNotFoundError("notification"))
	rec = suite.request(http.MethodPost, "/api/notifications/"+id.String()+"/read", "customer", "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *RoutesTestSuite) TestQuotePreview() {
	restaurantID, itemID := uuid.New(), uuid.New()
	suite.orders.On("Quote", mock.Anything, restaurantID, []models.OrderLine{{MenuItemID: itemID, Quantity: 1}}).
		Return(&models.Quote{SubtotalCents: 500, DeliveryFee: 299, TotalCents: 799}, nil)

	body := `{"restaurantId":"` + restaurantID.String() + `","items":[{"menuItemId":"` + itemID.String() + `","quantity":1}]}`
	rec := suite.request(http.MethodPost, "/api/quotes/preview", "customer", body)
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.JSONEq(suite.T(), `{"subtotalCents":500,"deliveryFee":299,"totalCents":799}`, rec.Body.String())
}

func (suite *RoutesTestSuite) TestGeocodeFailureAnswersNull() {
	rec := suite.request(http.MethodPost, "/api/geocode", "customer", `{"address":"Main Street 1"}`)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "null", strings.TrimSpace(rec.Body.String()))
}

func (suite *RoutesTestSuite) TestAdminRoutesRequireAdmin() {
	for _, token := range []string{"customer", "owner", "courier"} {
		rec := suite.request(http.MethodGet, "/api/admin/couriers", token, "")
		assert.Equal(suite.T(), http.StatusForbidden, rec.Code, token)
	}
}

func (suite *RoutesTestSuite) TestAdminUsers_RoleFilter() {
	rec := suite.request(http.MethodGet, "/api/admin/users?role=BOGUS", "admin", "")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	kit := &models.User{ID: uuid.New(), Phone: "5550123", Role: models.RoleCourier}
	suite.admin.On("Users", mock.Anything, suite.operator, models.RoleCourier).Return([]*models.User{kit}, nil)

	rec = suite.request(http.MethodGet, "/api/admin/users?role=COURIER", "admin", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), kit.ID.String())
}

func (suite *RoutesTestSuite) TestAdminCouriers() {
	lat := 52.5
	overview := &models.CourierOverview{
		User:     &models.User{ID: uuid.New(), Role: models.RoleCourier},
		Position: &models.CourierPosition{Lat: lat, Lng: 13.4},
		Orders:   []models.CourierOrderRef{},
	}
	suite.admin.On("Couriers", mock.Anything, suite.operator).Return([]*models.CourierOverview{overview}, nil)

	rec := suite.request(http.MethodGet, "/api/admin/couriers", "admin", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(suite.T(), got, 1)
	assert.Equal(suite.T(), []any{}, got[0]["orders"])
	assert.Equal(suite.T(), lat, got[0]["position"].(map[string]any)["lat"])
}

func (suite *RoutesTestSuite) TestUploadWithoutStorage() {
	rec := suite.request(http.MethodPost, "/api/upload", "owner", "")
	assert.Equal(suite.T(), http.StatusServiceUnavailable, rec.Code)

	rec = suite.request(http.MethodPost, "/api/upload", "customer", "")
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
}

func TestReady_UnhealthyDependency(t *testing.T) {
	e := echo.New()
	h := NewHealthHandlers(map[string]Pinger{"database": stubPinger{}, "redis": stubPinger{err: errors.New("refused")}}, "test")
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health/ready", nil), rec)

	require.NoError(t, h.Ready(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status ReadinessStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Services["redis"])
	assert.Equal(t, "healthy", status.Services["database"])
}
