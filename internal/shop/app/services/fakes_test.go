package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
)

// In-memory collaborators for service tests.

type memOrders struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*models.Order

	createErr error
}

func newMemOrders() *memOrders {
	return &memOrders{nextID: 1, orders: map[int64]*models.Order{}}
}

func (m *memOrders) Create(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = m.nextID
	m.nextID++
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	order.StatusHistory = []models.StatusChange{{Status: order.Status, ChangedBy: order.UserID, CreatedAt: order.CreatedAt}}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrders) Get(ctx context.Context, id int64) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, core.ErrOrderNotFound
	}
	return *o, nil
}

func (m *memOrders) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) ListAll(ctx context.Context, status string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if status == "" || string(o.Status) == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) Transition(ctx context.Context, id int64, next models.OrderStatus, actor int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return core.ErrOrderNotFound
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", core.ErrInvalidTransition, o.Status, next)
	}
	now := time.Now()
	switch next {
	case models.StatusAccepted:
		o.AcceptedBy = &actor
		o.AcceptedAt = &now
	case models.StatusRejected:
		o.RejectedBy = &actor
		o.RejectedAt = &now
		o.RejectionReason = &reason
	}
	o.Status = next
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, models.StatusChange{Status: next, ChangedBy: actor, CreatedAt: now})
	return nil
}

type memCatalog struct {
	products map[int64]models.Product
	zones    map[int64]models.DeliveryZone

	categories []models.Category
	offers     []models.Offer

	listCalls int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		products: map[int64]models.Product{},
		zones:    map[int64]models.DeliveryZone{},
	}
}

func (m *memCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.listCalls++
	return m.categories, nil
}

func (m *memCatalog) ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error) {
	m.listCalls++
	var out []models.Product
	for _, p := range m.products {
		if !onlyActive || p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memCatalog) ListZones(ctx context.Context, onlyActive bool) ([]models.DeliveryZone, error) {
	m.listCalls++
	var out []models.DeliveryZone
	for _, z := range m.zones {
		if !onlyActive || z.Active {
			out = append(out, z)
		}
	}
	return out, nil
}

func (m *memCatalog) ListOffers(ctx context.Context, onlyActive bool) ([]models.Offer, error) {
	m.listCalls++
	return m.offers, nil
}

func (m *memCatalog) GetActiveProduct(ctx context.Context, id int64) (models.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.Active {
		return models.Product{}, core.ErrProductUnavailable
	}
	return p, nil
}

func (m *memCatalog) GetZone(ctx context.Context, id int64) (models.DeliveryZone, error) {
	z, ok := m.zones[id]
	if !ok {
		return models.DeliveryZone{}, core.ErrZoneNotFound
	}
	return z, nil
}

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byName: map[string]models.User{}}
}

func (m *memUsers) Create(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[user.Username]; ok {
		return models.User{}, core.ErrUsernameTaken
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.byName[user.Username] = user
	return user, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return models.User{}, core.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, core.ErrUserNotFound
}

// chanPublisher delivers each published event to a channel so tests can wait
// for the fire-and-forget goroutine.
type chanPublisher struct {
	events chan dto.OrderCreatedEvent
	err    error
}

func newChanPublisher() *chanPublisher {
	return &chanPublisher{events: make(chan dto.OrderCreatedEvent, 8)}
}

func (p *chanPublisher) OrderCreated(ctx context.Context, evt dto.OrderCreatedEvent) error {
	p.events <- evt
	return p.err
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
