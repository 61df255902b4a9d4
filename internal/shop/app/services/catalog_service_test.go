package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/pkg/logger"
)

// memCatalogAdmin records writes; reads stay on memCatalog.
type memCatalogAdmin struct {
	zones      map[int64]models.DeliveryZone
	categories map[int64]models.Category
	nextID     int64
}

func newMemCatalogAdmin() *memCatalogAdmin {
	return &memCatalogAdmin{
		zones:      map[int64]models.DeliveryZone{},
		categories: map[int64]models.Category{},
		nextID:     1,
	}
}

func (m *memCatalogAdmin) CreateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error) {
	z := models.DeliveryZone{ID: m.nextID, NameAr: req.NameAr, Fee: req.Fee, Active: true}
	m.nextID++
	m.zones[z.ID] = z
	return z, nil
}

func (m *memCatalogAdmin) UpdateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error) {
	z, ok := m.zones[req.ID]
	if !ok {
		return models.DeliveryZone{}, core.ErrZoneNotFound
	}
	z.NameAr = req.NameAr
	m.zones[req.ID] = z
	return z, nil
}

func (m *memCatalogAdmin) DeleteZone(ctx context.Context, id int64) error {
	delete(m.zones, id)
	return nil
}

func (m *memCatalogAdmin) CreateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error) {
	c := models.Category{ID: m.nextID, NameAr: req.NameAr}
	m.nextID++
	m.categories[c.ID] = c
	return c, nil
}

func (m *memCatalogAdmin) UpdateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error) {
	c := m.categories[req.ID]
	c.NameAr = req.NameAr
	m.categories[req.ID] = c
	return c, nil
}

func (m *memCatalogAdmin) DeleteCategory(ctx context.Context, id int64) error {
	delete(m.categories, id)
	return nil
}

func (m *memCatalogAdmin) CreateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error) {
	return models.Offer{ID: 1, TitleAr: req.TitleAr}, nil
}

func (m *memCatalogAdmin) UpdateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error) {
	return models.Offer{ID: req.ID, TitleAr: req.TitleAr}, nil
}

func (m *memCatalogAdmin) DeleteOffer(ctx context.Context, id int64) error { return nil }

func (m *memCatalogAdmin) CreateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error) {
	return models.Product{ID: 1, NameAr: req.NameAr, Active: true}, nil
}

func (m *memCatalogAdmin) UpdateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error) {
	return models.Product{ID: req.ID, NameAr: req.NameAr}, nil
}

func (m *memCatalogAdmin) DeleteProduct(ctx context.Context, id int64) error { return nil }

func TestActiveZonesUsesCache(t *testing.T) {
	catalog := seedCatalog()
	cache := newFakeCache()
	svc := NewCatalogService(catalog, newMemCatalogAdmin(), cache, logger.Discard())

	first, err := svc.ActiveZones(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1, "inactive zones stay hidden")
	assert.Equal(t, 1, catalog.listCalls)

	// Second read is served from cache.
	second, err := svc.ActiveZones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, catalog.listCalls)
}

func TestActiveZonesNilCache(t *testing.T) {
	catalog := seedCatalog()
	svc := NewCatalogService(catalog, newMemCatalogAdmin(), nil, logger.Discard())

	for range 3 {
		_, err := svc.ActiveZones(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, catalog.listCalls, "nil cache means every read hits the repo")
}

func TestCacheFailureFallsThrough(t *testing.T) {
	catalog := seedCatalog()
	cache := newFakeCache()
	cache.getErr = assert.AnError
	svc := NewCatalogService(catalog, newMemCatalogAdmin(), cache, logger.Discard())

	zones, err := svc.ActiveZones(context.Background())
	require.NoError(t, err, "cache failures must not fail the read")
	assert.Len(t, zones, 1)
	assert.Equal(t, 1, catalog.listCalls)
}

func TestZoneWriteInvalidatesCache(t *testing.T) {
	catalog := seedCatalog()
	cache := newFakeCache()
	svc := NewCatalogService(catalog, newMemCatalogAdmin(), cache, logger.Discard())

	_, err := svc.ActiveZones(context.Background())
	require.NoError(t, err)
	require.Contains(t, cache.data, "catalog:zones")

	_, err = svc.CreateZone(context.Background(), dto.ZoneRequest{NameAr: "طبربور"})
	require.NoError(t, err)
	assert.NotContains(t, cache.data, "catalog:zones")
}

func TestCatalogWriteValidation(t *testing.T) {
	svc := NewCatalogService(seedCatalog(), newMemCatalogAdmin(), nil, logger.Discard())

	_, err := svc.CreateZone(context.Background(), dto.ZoneRequest{})
	assert.ErrorIs(t, err, core.ErrNameRequired)

	_, err = svc.UpdateZone(context.Background(), dto.ZoneRequest{NameAr: "x"})
	assert.ErrorIs(t, err, core.ErrNameRequired, "update without id")

	_, err = svc.CreateCategory(context.Background(), dto.CategoryRequest{})
	assert.ErrorIs(t, err, core.ErrNameRequired)

	_, err = svc.CreateOffer(context.Background(), dto.OfferRequest{})
	assert.ErrorIs(t, err, core.ErrNameRequired)

	_, err = svc.CreateProduct(context.Background(), dto.ProductRequest{NameAr: "خيار"})
	assert.ErrorIs(t, err, core.ErrNameRequired, "product without units")
}

func TestAllProductsIncludesInactive(t *testing.T) {
	svc := NewCatalogService(seedCatalog(), newMemCatalogAdmin(), nil, logger.Discard())

	active, err := svc.ActiveProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.AllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
