package services

import (
	"context"
	"encoding/json"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/pkg/logger"
)

// Cache keys for the public read paths.
const (
	cacheKeyCategories = "catalog:categories"
	cacheKeyProducts   = "catalog:products"
	cacheKeyZones      = "catalog:zones"
	cacheKeyOffers     = "catalog:offers"
)

// CatalogService serves the storefront reads (cache-aside over the
// repository) and the back-office catalog writes (which invalidate the
// cache). A nil cache disables caching entirely.
type CatalogService struct {
	catalog core.ICatalogRepo
	admin   core.ICatalogAdminRepo
	cache   core.ICache
	mylog   logger.Logger
}

func NewCatalogService(catalog core.ICatalogRepo, admin core.ICatalogAdminRepo, cache core.ICache, mylog logger.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		admin:   admin,
		cache:   cache,
		mylog:   mylog,
	}
}

func (cs *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if cs.cached(ctx, cacheKeyCategories, &out) {
		return out, nil
	}
	out, err := cs.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	cs.store(ctx, cacheKeyCategories, out)
	return out, nil
}

func (cs *CatalogService) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if cs.cached(ctx, cacheKeyProducts, &out) {
		return out, nil
	}
	out, err := cs.catalog.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}
	cs.store(ctx, cacheKeyProducts, out)
	return out, nil
}

func (cs *CatalogService) ActiveZones(ctx context.Context) ([]models.DeliveryZone, error) {
	var out []models.DeliveryZone
	if cs.cached(ctx, cacheKeyZones, &out) {
		return out, nil
	}
	out, err := cs.catalog.ListZones(ctx, true)
	if err != nil {
		return nil, err
	}
	cs.store(ctx, cacheKeyZones, out)
	return out, nil
}

func (cs *CatalogService) ActiveOffers(ctx context.Context) ([]models.Offer, error) {
	var out []models.Offer
	if cs.cached(ctx, cacheKeyOffers, &out) {
		return out, nil
	}
	out, err := cs.catalog.ListOffers(ctx, true)
	if err != nil {
		return nil, err
	}
	cs.store(ctx, cacheKeyOffers, out)
	return out, nil
}

// cached loads key into dest and reports whether it hit. Cache failures are
// logged and treated as misses.
func (cs *CatalogService) cached(ctx context.Context, key string, dest any) bool {
	if cs.cache == nil {
		return false
	}
	raw, err := cs.cache.Get(ctx, key)
	if err != nil || raw == nil {
		if err != nil {
			cs.mylog.Action("cache_get_failed").Warn("Catalog cache read failed", "key", key, "error", err.Error())
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		cs.mylog.Action("cache_decode_failed").Warn("Dropping bad catalog cache entry", "key", key)
		_ = cs.cache.Del(ctx, key)
		return false
	}
	return true
}

func (cs *CatalogService) store(ctx context.Context, key string, val any) {
	if cs.cache == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := cs.cache.Set(ctx, key, raw, core.CatalogCacheTTL); err != nil {
		cs.mylog.Action("cache_set_failed").Warn("Catalog cache write failed", "key", key, "error", err.Error())
	}
}

func (cs *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if cs.cache == nil {
		return
	}
	if err := cs.cache.Del(ctx, keys...); err != nil {
		cs.mylog.Action("cache_invalidate_failed").Warn("Catalog cache invalidation failed", "error", err.Error())
	}
}

// Back-office reads include inactive rows.

func (cs *CatalogService) AllProducts(ctx context.Context) ([]models.Product, error) {
	return cs.catalog.ListProducts(ctx, false)
}

func (cs *CatalogService) AllZones(ctx context.Context) ([]models.DeliveryZone, error) {
	return cs.catalog.ListZones(ctx, false)
}

func (cs *CatalogService) AllOffers(ctx context.Context) ([]models.Offer, error) {
	return cs.catalog.ListOffers(ctx, false)
}

// Back-office writes.

func (cs *CatalogService) CreateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error) {
	if req.NameAr == "" {
		return models.DeliveryZone{}, core.ErrNameRequired
	}
	zone, err := cs.admin.CreateZone(ctx, req)
	if err != nil {
		return models.DeliveryZone{}, err
	}
	cs.invalidate(ctx, cacheKeyZones)
	return zone, nil
}

func (cs *CatalogService) UpdateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error) {
	if req.ID == 0 {
		return models.DeliveryZone{}, core.ErrNameRequired
	}
	zone, err := cs.admin.UpdateZone(ctx, req)
	if err != nil {
		return models.DeliveryZone{}, err
	}
	cs.invalidate(ctx, cacheKeyZones)
	return zone, nil
}

func (cs *CatalogService) DeleteZone(ctx context.Context, id int64) error {
	if err := cs.admin.DeleteZone(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx, cacheKeyZones)
	return nil
}

func (cs *CatalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error) {
	if req.NameAr == "" {
		return models.Category{}, core.ErrNameRequired
	}
	cat, err := cs.admin.CreateCategory(ctx, req)
	if err != nil {
		return models.Category{}, err
	}
	cs.invalidate(ctx, cacheKeyCategories)
	return cat, nil
}

func (cs *CatalogService) UpdateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error) {
	if req.ID == 0 {
		return models.Category{}, core.ErrNameRequired
	}
	cat, err := cs.admin.UpdateCategory(ctx, req)
	if err != nil {
		return models.Category{}, err
	}
	cs.invalidate(ctx, cacheKeyCategories)
	return cat, nil
}

func (cs *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := cs.admin.DeleteCategory(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx, cacheKeyCategories)
	return nil
}

func (cs *CatalogService) CreateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error) {
	if req.TitleAr == "" {
		return models.Offer{}, core.ErrNameRequired
	}
	offer, err := cs.admin.CreateOffer(ctx, req)
	if err != nil {
		return models.Offer{}, err
	}
	cs.invalidate(ctx, cacheKeyOffers)
	return offer, nil
}

func (cs *CatalogService) UpdateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error) {
	if req.ID == 0 {
		return models.Offer{}, core.ErrNameRequired
	}
	offer, err := cs.admin.UpdateOffer(ctx, req)
	if err != nil {
		return models.Offer{}, err
	}
	cs.invalidate(ctx, cacheKeyOffers)
	return offer, nil
}

func (cs *CatalogService) DeleteOffer(ctx context.Context, id int64) error {
	if err := cs.admin.DeleteOffer(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx, cacheKeyOffers)
	return nil
}

func (cs *CatalogService) CreateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error) {
	if req.NameAr == "" || len(req.Units) == 0 {
		return models.Product{}, core.ErrNameRequired
	}
	product, err := cs.admin.CreateProduct(ctx, req)
	if err != nil {
		return models.Product{}, err
	}
	cs.invalidate(ctx, cacheKeyProducts)
	return product, nil
}

func (cs *CatalogService) UpdateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error) {
	if req.ID == 0 {
		return models.Product{}, core.ErrNameRequired
	}
	product, err := cs.admin.UpdateProduct(ctx, req)
	if err != nil {
		return models.Product{}, err
	}
	cs.invalidate(ctx, cacheKeyProducts)
	return product, nil
}

func (cs *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := cs.admin.DeleteProduct(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx, cacheKeyProducts)
	return nil
}
