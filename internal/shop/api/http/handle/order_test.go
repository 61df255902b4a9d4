package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/app/services"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/pkg/logger"
)

// Thin stubs so handler tests can run a real OrderService.

type stubOrders struct {
	created *models.Order
}

func (s *stubOrders) Create(ctx context.Context, order *models.Order) error {
	order.ID = 1
	s.created = order
	return nil
}

func (s *stubOrders) Get(ctx context.Context, id int64) (models.Order, error) {
	if s.created == nil || s.created.ID != id {
		return models.Order{}, core.ErrOrderNotFound
	}
	return *s.created, nil
}

func (s *stubOrders) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrders) ListAll(ctx context.Context, status string) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrders) Transition(ctx context.Context, id int64, next models.OrderStatus, actor int64, reason string) error {
	if s.created == nil || s.created.ID != id {
		return core.ErrOrderNotFound
	}
	if !s.created.Status.CanTransitionTo(next) {
		return core.ErrInvalidTransition
	}
	s.created.Status = next
	return nil
}

type stubCatalog struct{}

func (stubCatalog) ListCategories(ctx context.Context) ([]models.Category, error) { return nil, nil }
func (stubCatalog) ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error) {
	return nil, nil
}
func (stubCatalog) ListZones(ctx context.Context, onlyActive bool) ([]models.DeliveryZone, error) {
	return nil, nil
}
func (stubCatalog) ListOffers(ctx context.Context, onlyActive bool) ([]models.Offer, error) {
	return nil, nil
}

func (stubCatalog) GetActiveProduct(ctx context.Context, id int64) (models.Product, error) {
	if id != 1 {
		return models.Product{}, core.ErrProductUnavailable
	}
	price, _ := decimal.NewFromString("0.75")
	return models.Product{
		ID:     1,
		NameAr: "خيار",
		Active: true,
		Units:  []models.UnitPrice{{Unit: "kg", Price: price, IsDefault: true}},
	}, nil
}

func (stubCatalog) GetZone(ctx context.Context, id int64) (models.DeliveryZone, error) {
	if id != 5 {
		return models.DeliveryZone{}, core.ErrZoneNotFound
	}
	fee, _ := decimal.NewFromString("1.00")
	return models.DeliveryZone{ID: 5, NameAr: "الجبيهة", Fee: fee, Active: true}, nil
}

type stubUsers struct{}

func (stubUsers) Create(ctx context.Context, user models.User) (models.User, error) {
	return user, nil
}

func (stubUsers) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return models.User{}, core.ErrUserNotFound
}

func (stubUsers) GetByID(ctx context.Context, id int64) (models.User, error) {
	return models.User{}, core.ErrUserNotFound
}

type stubPublisher struct{}

func (stubPublisher) OrderCreated(ctx context.Context, evt dto.OrderCreatedEvent) error { return nil }

func newOrderHandler(orders *stubOrders) *OrderHandler {
	svc := services.NewOrderService(orders, stubCatalog{}, stubUsers{}, stubPublisher{}, logger.Discard())
	return NewOrderHandler(svc, logger.Discard())
}

func withSession(r *http.Request, session models.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionKey, session))
}

func TestCreateOrderHandler(t *testing.T) {
	orders := &stubOrders{}
	h := newOrderHandler(orders)

	body := `{"items":[{"productId":1,"unit":"kg","qty":2}],"address":{"zoneId":5,"street":"شارع الجامعة","building":"3"}}`
	r := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	r = withSession(r, models.Session{UserID: 10, Role: models.RoleCustomer})

	w := httptest.NewRecorder()
	h.Create()(w, r)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.CreateOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.OrderID)
	assert.Equal(t, "2.5", resp.Total.String())

	require.NotNil(t, orders.created)
	assert.Equal(t, int64(10), orders.created.UserID)
}

func TestCreateOrderHandlerBadJSON(t *testing.T) {
	h := newOrderHandler(&stubOrders{})

	r := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{nope"))
	r = withSession(r, models.Session{UserID: 10})

	w := httptest.NewRecorder()
	h.Create()(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderHandlerValidationStatus(t *testing.T) {
	h := newOrderHandler(&stubOrders{})

	// Unknown product maps onto 400, not 500.
	body := `{"items":[{"productId":9,"unit":"kg","qty":1}],"address":{"zoneId":5,"street":"s","building":"1"}}`
	r := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	r = withSession(r, models.Session{UserID: 10})

	w := httptest.NewRecorder()
	h.Create()(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload, "error")
}

func TestGetOrderHandler(t *testing.T) {
	orders := &stubOrders{created: &models.Order{ID: 1, UserID: 10, Status: models.StatusPending}}
	h := newOrderHandler(orders)

	get := func(id string, session models.Session) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/orders/"+id, nil)
		r.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.Get()(w, withSession(r, session))
		return w
	}

	assert.Equal(t, http.StatusOK, get("1", models.Session{UserID: 10}).Code)
	assert.Equal(t, http.StatusForbidden, get("1", models.Session{UserID: 11}).Code)
	assert.Equal(t, http.StatusOK, get("1", models.Session{UserID: 11, Role: models.RoleCashier}).Code)
	assert.Equal(t, http.StatusNotFound, get("2", models.Session{UserID: 10}).Code)
	assert.Equal(t, http.StatusBadRequest, get("abc", models.Session{UserID: 10}).Code)
}

func TestTransitionHandler(t *testing.T) {
	orders := &stubOrders{created: &models.Order{ID: 1, UserID: 10, Status: models.StatusPending}}
	h := newOrderHandler(orders)

	patch := func(id, body string, session models.Session) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPatch, "/orders/"+id, strings.NewReader(body))
		r.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.Transition()(w, withSession(r, session))
		return w
	}

	cashier := models.Session{UserID: 20, Role: models.RoleCashier}

	assert.Equal(t, http.StatusForbidden, patch("1", `{"status":"accepted"}`, models.Session{UserID: 10}).Code)
	assert.Equal(t, http.StatusBadRequest, patch("1", `{"status":"pending"}`, cashier).Code)
	assert.Equal(t, http.StatusBadRequest, patch("1", `{"status":"delivered"}`, cashier).Code)
	assert.Equal(t, http.StatusNotFound, patch("9", `{"status":"accepted"}`, cashier).Code)
	assert.Equal(t, http.StatusOK, patch("1", `{"status":"accepted"}`, cashier).Code)
	assert.Equal(t, models.StatusAccepted, orders.created.Status)
}
