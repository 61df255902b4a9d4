package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/models"
	xdb "veggie-orders/internal/xpkg/db"
	"veggie-orders/pkg/logger"
)

// CatalogRepo serves both the storefront reads and the back-office writes.
type CatalogRepo struct {
	db  *xdb.DB
	log logger.Logger
}

func NewCatalogRepo(db *xdb.DB, log logger.Logger) *CatalogRepo {
	return &CatalogRepo{db: db, log: log}
}

func (cr *CatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := cr.db.GetPool().Query(ctx, `
		SELECT id, name_ar, COALESCE(name_en, ''), COALESCE(sort_order, 0), created_at
		FROM categories
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.NameAr, &c.NameEn, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (cr *CatalogRepo) ListProducts(ctx context.Context, onlyActive bool) ([]models.Product, error) {
	q := `
	SELECT id, name_ar, COALESCE(name_en, ''),
	       COALESCE(description_ar, ''), COALESCE(description_en, ''),
	       COALESCE(category_id, 0), COALESCE(image_url, ''),
	       active, created_at, updated_at
	FROM products`
	if onlyActive {
		q += ` WHERE active`
	}
	q += ` ORDER BY id`

	rows, err := cr.db.GetPool().Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	byID := make(map[int64]*models.Product)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.NameAr, &p.NameEn,
			&p.DescriptionAr, &p.DescriptionEn,
			&p.CategoryID, &p.ImageURL,
			&p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.Units = []models.UnitPrice{}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	unitRows, err := cr.db.GetPool().Query(ctx, `
		SELECT product_id, id, unit, price::text, COALESCE(is_default, false)
		FROM product_units
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer unitRows.Close()

	for unitRows.Next() {
		var productID int64
		var u models.UnitPrice
		var price string
		if err := unitRows.Scan(&productID, &u.ID, &u.Unit, &price, &u.IsDefault); err != nil {
			return nil, err
		}
		if u.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("bad unit price %q: %w", price, err)
		}
		if p, ok := byID[productID]; ok {
			p.Units = append(p.Units, u)
		}
	}
	return products, unitRows.Err()
}

// GetActiveProduct returns the product with its unit prices; inactive or
// missing products surface as ErrProductUnavailable.
func (cr *CatalogRepo) GetActiveProduct(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := cr.db.GetPool().QueryRow(ctx, `
		SELECT id, name_ar, COALESCE(name_en, ''),
		       COALESCE(description_ar, ''), COALESCE(description_en, ''),
		       COALESCE(category_id, 0), COALESCE(image_url, ''),
		       active, created_at, updated_at
		FROM products
		WHERE id = $1 AND active
	`, id).Scan(
		&p.ID, &p.NameAr, &p.NameEn,
		&p.DescriptionAr, &p.DescriptionEn,
		&p.CategoryID, &p.ImageURL,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, core.ErrProductUnavailable
		}
		return models.Product{}, err
	}

	rows, err := cr.db.GetPool().Query(ctx, `
		SELECT id, unit, price::text, COALESCE(is_default, false)
		FROM product_units
		WHERE product_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return models.Product{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.UnitPrice
		var price string
		if err := rows.Scan(&u.ID, &u.Unit, &price, &u.IsDefault); err != nil {
			return models.Product{}, err
		}
		if u.Price, err = decimal.NewFromString(price); err != nil {
			return models.Product{}, fmt.Errorf("bad unit price %q: %w", price, err)
		}
		p.Units = append(p.Units, u)
	}
	return p, rows.Err()
}

func (cr *CatalogRepo) ListZones(ctx context.Context, onlyActive bool) ([]models.DeliveryZone, error) {
	q := `
	SELECT id, name_ar, COALESCE(name_en, ''), fee::text, active, COALESCE(sort_order, 0)
	FROM delivery_zones`
	if onlyActive {
		q += ` WHERE active`
	}
	q += ` ORDER BY sort_order, id`

	rows, err := cr.db.GetPool().Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []models.DeliveryZone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, rows.Err()
}

func (cr *CatalogRepo) GetZone(ctx context.Context, id int64) (models.DeliveryZone, error) {
	row := cr.db.GetPool().QueryRow(ctx, `
		SELECT id, name_ar, COALESCE(name_en, ''), fee::text, active, COALESCE(sort_order, 0)
		FROM delivery_zones
		WHERE id = $1
	`, id)

	zone, err := scanZone(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DeliveryZone{}, core.ErrZoneNotFound
		}
		return models.DeliveryZone{}, err
	}
	return zone, nil
}

func (cr *CatalogRepo) ListOffers(ctx context.Context, onlyActive bool) ([]models.Offer, error) {
	q := `
	SELECT id, title_ar, COALESCE(title_en, ''), COALESCE(subtitle_ar, ''),
	       COALESCE(subtitle_en, ''), COALESCE(image_url, ''),
	       COALESCE(priority, 0), active, created_at
	FROM offers`
	if onlyActive {
		q += ` WHERE active`
	}
	q += ` ORDER BY priority, id`

	rows, err := cr.db.GetPool().Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(
			&o.ID, &o.TitleAr, &o.TitleEn, &o.SubtitleAr,
			&o.SubtitleEn, &o.ImageURL, &o.Priority, &o.Active, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func scanZone(row pgx.Row) (models.DeliveryZone, error) {
	var z models.DeliveryZone
	var fee string
	if err := row.Scan(&z.ID, &z.NameAr, &z.NameEn, &fee, &z.Active, &z.SortOrder); err != nil {
		return models.DeliveryZone{}, err
	}
	var err error
	if z.Fee, err = decimal.NewFromString(fee); err != nil {
		return models.DeliveryZone{}, fmt.Errorf("bad zone fee %q: %w", fee, err)
	}
	return z, nil
}
