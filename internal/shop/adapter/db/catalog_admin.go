package db

import (
	"context"
	"fmt"

	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
)

// Back-office catalog writes. Products replace their unit-price set on every
// update so the admin form stays one round trip.

func (cr *CatalogRepo) CreateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error) {
	row := cr.db.GetPool().QueryRow(ctx, `
		INSERT INTO delivery_zones (name_ar, name_en, fee, active, sort_order)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		RETURNING id, name_ar, COALESCE(name_en, ''), fee::text, active, COALESCE(sort_order, 0)
	`, req.NameAr, req.NameEn, req.Fee.StringFixed(2), activeOrDefault(req.Active), req.SortOrder)
	return scanZone(row)
}

func (cr *CatalogRepo) UpdateZone(ctx context.Context, req dto.ZoneRequest) (models.DeliveryZone, error) {
	row := cr.db.GetPool().QueryRow(ctx, `
		UPDATE delivery_zones
		SET name_ar = $2, name_en = NULLIF($3, ''), fee = $4, active = $5, sort_order = $6
		WHERE id = $1
		RETURNING id, name_ar, COALESCE(name_en, ''), fee::text, active, COALESCE(sort_order, 0)
	`, req.ID, req.NameAr, req.NameEn, req.Fee.StringFixed(2), activeOrDefault(req.Active), req.SortOrder)
	return scanZone(row)
}

func (cr *CatalogRepo) DeleteZone(ctx context.Context, id int64) error {
	_, err := cr.db.GetPool().Exec(ctx, `DELETE FROM delivery_zones WHERE id = $1`, id)
	return err
}

func (cr *CatalogRepo) CreateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error) {
	var c models.Category
	err := cr.db.GetPool().QueryRow(ctx, `
		INSERT INTO categories (name_ar, name_en, sort_order)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, name_ar, COALESCE(name_en, ''), COALESCE(sort_order, 0), created_at
	`, req.NameAr, req.NameEn, req.SortOrder).Scan(&c.ID, &c.NameAr, &c.NameEn, &c.SortOrder, &c.CreatedAt)
	return c, err
}

func (cr *CatalogRepo) UpdateCategory(ctx context.Context, req dto.CategoryRequest) (models.Category, error) {
	var c models.Category
	err := cr.db.GetPool().QueryRow(ctx, `
		UPDATE categories
		SET name_ar = $2, name_en = NULLIF($3, ''), sort_order = $4
		WHERE id = $1
		RETURNING id, name_ar, COALESCE(name_en, ''), COALESCE(sort_order, 0), created_at
	`, req.ID, req.NameAr, req.NameEn, req.SortOrder).Scan(&c.ID, &c.NameAr, &c.NameEn, &c.SortOrder, &c.CreatedAt)
	return c, err
}

func (cr *CatalogRepo) DeleteCategory(ctx context.Context, id int64) error {
	_, err := cr.db.GetPool().Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (cr *CatalogRepo) CreateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error) {
	var o models.Offer
	err := cr.db.GetPool().QueryRow(ctx, `
		INSERT INTO offers (title_ar, title_en, subtitle_ar, subtitle_en, image_url, priority, active)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		RETURNING id, title_ar, COALESCE(title_en, ''), COALESCE(subtitle_ar, ''),
		          COALESCE(subtitle_en, ''), COALESCE(image_url, ''),
		          COALESCE(priority, 0), active, created_at
	`, req.TitleAr, req.TitleEn, req.SubtitleAr, req.SubtitleEn, req.ImageURL,
		req.Priority, activeOrDefault(req.Active)).Scan(
		&o.ID, &o.TitleAr, &o.TitleEn, &o.SubtitleAr,
		&o.SubtitleEn, &o.ImageURL, &o.Priority, &o.Active, &o.CreatedAt,
	)
	return o, err
}

func (cr *CatalogRepo) UpdateOffer(ctx context.Context, req dto.OfferRequest) (models.Offer, error) {
	var o models.Offer
	err := cr.db.GetPool().QueryRow(ctx, `
		UPDATE offers
		SET title_ar = $2, title_en = NULLIF($3, ''), subtitle_ar = NULLIF($4, ''),
		    subtitle_en = NULLIF($5, ''), image_url = NULLIF($6, ''),
		    priority = $7, active = $8
		WHERE id = $1
		RETURNING id, title_ar, COALESCE(title_en, ''), COALESCE(subtitle_ar, ''),
		          COALESCE(subtitle_en, ''), COALESCE(image_url, ''),
		          COALESCE(priority, 0), active, created_at
	`, req.ID, req.TitleAr, req.TitleEn, req.SubtitleAr, req.SubtitleEn,
		req.ImageURL, req.Priority, activeOrDefault(req.Active)).Scan(
		&o.ID, &o.TitleAr, &o.TitleEn, &o.SubtitleAr,
		&o.SubtitleEn, &o.ImageURL, &o.Priority, &o.Active, &o.CreatedAt,
	)
	return o, err
}

func (cr *CatalogRepo) DeleteOffer(ctx context.Context, id int64) error {
	_, err := cr.db.GetPool().Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return err
}

func (cr *CatalogRepo) CreateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error) {
	tx, err := cr.db.GetPool().Begin(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO products (name_ar, name_en, description_ar, description_en, category_id, image_url, active)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, 0), NULLIF($6, ''), $7)
		RETURNING id
	`, req.NameAr, req.NameEn, req.DescriptionAr, req.DescriptionEn,
		req.CategoryID, req.ImageURL, activeOrDefault(req.Active)).Scan(&id)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	for _, u := range req.Units {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_units (product_id, unit, price, is_default)
			VALUES ($1, $2, $3, $4)
		`, id, u.Unit, u.Price.StringFixed(2), u.IsDefault); err != nil {
			return models.Product{}, fmt.Errorf("failed to insert unit: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Product{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return cr.productByID(ctx, id)
}

func (cr *CatalogRepo) UpdateProduct(ctx context.Context, req dto.ProductRequest) (models.Product, error) {
	tx, err := cr.db.GetPool().Begin(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE products
		SET name_ar = $2, name_en = NULLIF($3, ''),
		    description_ar = NULLIF($4, ''), description_en = NULLIF($5, ''),
		    category_id = NULLIF($6, 0), image_url = NULLIF($7, ''),
		    active = $8, updated_at = now()
		WHERE id = $1
	`, req.ID, req.NameAr, req.NameEn, req.DescriptionAr, req.DescriptionEn,
		req.CategoryID, req.ImageURL, activeOrDefault(req.Active))
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	if len(req.Units) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM product_units WHERE product_id = $1`, req.ID); err != nil {
			return models.Product{}, fmt.Errorf("failed to clear units: %w", err)
		}
		for _, u := range req.Units {
			if _, err := tx.Exec(ctx, `
				INSERT INTO product_units (product_id, unit, price, is_default)
				VALUES ($1, $2, $3, $4)
			`, req.ID, u.Unit, u.Price.StringFixed(2), u.IsDefault); err != nil {
				return models.Product{}, fmt.Errorf("failed to insert unit: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Product{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return cr.productByID(ctx, req.ID)
}

func (cr *CatalogRepo) DeleteProduct(ctx context.Context, id int64) error {
	_, err := cr.db.GetPool().Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// productByID loads a product regardless of its active flag,
// for back-office responses.
func (cr *CatalogRepo) productByID(ctx context.Context, id int64) (models.Product, error) {
	products, err := cr.ListProducts(ctx, false)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %d not found after write", id)
}

func activeOrDefault(active *bool) bool {
	if active == nil {
		return true
	}
	return *active
}
