package core

import (
	"context"
	"time"

	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
)

// IOrderRepo persists orders. Create must write the order, its line items
// and the initial history row atomically; Transition must apply the status
// change, its stamps and the history append atomically.
type IOrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id int64) (models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListAll(ctx context.Context, status string) ([]models.Order, error)
	Transition(ctx context.Context, id int64, next models.OrderStatus, actor int64, reason string) error
}

// ICatalogRepo serves the read paths the storefront and order intake use.
type ICatalogRepo interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error)
	ListZones(ctx context.Context, onlyActive bool) ([]models.DeliveryZone, error)
	ListOffers(ctx context.Context, onlyActive bool) ([]models.Offer, error)
	GetActiveProduct(ctx context.Context, id int64) (models.Product, error)
	GetZone(ctx context.Context, id int64) (models.DeliveryZone, error)
}

// ICatalogAdminRepo is the back-office write side of the catalog.
type ICatalogAdminRepo interface {
	CreateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error)
	UpdateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error)
	DeleteZone(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error)
	UpdateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error)
	UpdateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error)
	DeleteOffer(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error)
	UpdateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type IUserRepo interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type IReportRepo interface {
	Stats(ctx context.Context, from time.Time) (dto.StatsReport, error)
	Accounting(ctx context.Context, from, to *time.Time) (dto.AccountingReport, error)
}

// ICache is the catalog read cache. A nil implementation is valid and means
// every read goes to the database.
type ICache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// IPublisher delivers the order-created event to the notification fanout.
// Errors are logged by the caller and never fail order creation.
type IPublisher interface {
	OrderCreated(ctx context.Context, evt dto.OrderCreatedEvent) error
}
