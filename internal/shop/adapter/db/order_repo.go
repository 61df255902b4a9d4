package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/models"
	xdb "veggie-orders/internal/xpkg/db"
	"veggie-orders/pkg/logger"
)

type OrderRepo struct {
	db  *xdb.DB
	log logger.Logger
}

func NewOrderRepo(db *xdb.DB, log logger.Logger) *OrderRepo {
	return &OrderRepo{db: db, log: log}
}

// Create writes the order, its line items and the initial pending history
// row in one transaction. If any insert fails nothing is observable.
func (or *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	tx, err := or.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			user_id, zone_id, zone_name, street, building,
			address_details, location_link,
			subtotal, delivery_fee, total,
			payment_method, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`,
		order.UserID,
		order.Address.ZoneID,
		order.Address.ZoneName,
		order.Address.Street,
		order.Address.Building,
		order.Address.Details,
		order.Address.LocationLink,
		order.Subtotal.StringFixed(2),
		order.DeliveryFee.StringFixed(2),
		order.Total.StringFixed(2),
		order.PaymentMethod,
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (
				order_id, product_id, name_ar, name_en,
				unit, price, qty, line_total, image_url
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`,
			order.ID,
			item.ProductID,
			item.NameAr,
			item.NameEn,
			item.Unit,
			item.Price.StringFixed(2),
			item.Qty,
			item.LineTotal.StringFixed(2),
			item.ImageURL,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	var change models.StatusChange
	change.Status = order.Status
	change.ChangedBy = order.UserID
	err = tx.QueryRow(ctx, `
		INSERT INTO order_status_history (order_id, status, changed_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, order.ID, string(order.Status), order.UserID).Scan(&change.ID, &change.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	order.StatusHistory = []models.StatusChange{change}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Transition locks the order row, validates the adjacency graph against the
// committed status and applies the update plus history append atomically.
// The loser of a concurrent race re-reads a changed status and fails with
// ErrInvalidTransition instead of double-applying.
func (or *OrderRepo) Transition(ctx context.Context, id int64, next models.OrderStatus, actor int64, reason string) error {
	tx, err := or.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}

	if !models.OrderStatus(current).CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", core.ErrInvalidTransition, current, next)
	}

	switch next {
	case models.StatusAccepted:
		_, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, updated_at = now(), accepted_by = $3, accepted_at = now()
			WHERE id = $1
		`, id, string(next), actor)
	case models.StatusRejected:
		_, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, updated_at = now(),
			    rejected_by = $3, rejected_at = now(), rejection_reason = $4
			WHERE id = $1
		`, id, string(next), actor, reason)
	default:
		_, err = tx.Exec(ctx, `
			UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
		`, id, string(next))
	}
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, changed_by)
		VALUES ($1, $2, $3)
	`, id, string(next), actor)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const orderColumns = `
	o.id, o.user_id,
	COALESCE(o.zone_id, 0), COALESCE(o.zone_name, ''),
	COALESCE(o.street, ''), COALESCE(o.building, ''),
	COALESCE(o.address_details, ''), COALESCE(o.location_link, ''),
	o.subtotal::text, o.delivery_fee::text, o.total::text,
	o.payment_method, o.status, o.rejection_reason,
	o.accepted_by, o.accepted_at, o.rejected_by, o.rejected_at,
	o.created_at, o.updated_at,
	COALESCE(u.display_name, ''), u.email, COALESCE(u.phone, '')`

func (or *OrderRepo) Get(ctx context.Context, id int64) (models.Order, error) {
	q := `
	SELECT ` + orderColumns + `
	FROM orders o
	JOIN users u ON u.id = o.user_id
	WHERE o.id = $1`

	row := or.db.GetPool().QueryRow(ctx, q, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, core.ErrOrderNotFound
		}
		return models.Order{}, err
	}

	if err := or.attachDetails(ctx, []*models.Order{&order}); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (or *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	q := `
	SELECT ` + orderColumns + `
	FROM orders o
	JOIN users u ON u.id = o.user_id
	WHERE o.user_id = $1
	ORDER BY o.created_at DESC`

	return or.queryOrders(ctx, q, userID)
}

// ListAll returns every order for the cashier board, optionally filtered by
// status, newest first.
func (or *OrderRepo) ListAll(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" {
		q := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = $1
		ORDER BY o.created_at DESC`
		return or.queryOrders(ctx, q, status)
	}

	q := `
	SELECT ` + orderColumns + `
	FROM orders o
	JOIN users u ON u.id = o.user_id
	ORDER BY o.created_at DESC`
	return or.queryOrders(ctx, q)
}

func (or *OrderRepo) queryOrders(ctx context.Context, q string, args ...any) ([]models.Order, error) {
	rows, err := or.db.GetPool().Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*models.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := or.attachDetails(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachDetails batch-loads line items and status history for the given
// orders. The two loads touch disjoint fields and run concurrently.
func (or *OrderRepo) attachDetails(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*models.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return or.loadItems(gctx, ids, byID) })
	g.Go(func() error { return or.loadHistory(gctx, ids, byID) })
	return g.Wait()
}

func (or *OrderRepo) loadItems(ctx context.Context, ids []int64, byID map[int64]*models.Order) error {
	itemRows, err := or.db.GetPool().Query(ctx, `
		SELECT order_id, id, COALESCE(product_id, 0), name_ar, COALESCE(name_en, ''),
		       unit, price::text, qty, line_total::text, COALESCE(image_url, '')
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item models.OrderItem
		var price, lineTotal string
		if err := itemRows.Scan(
			&orderID, &item.ID, &item.ProductID, &item.NameAr, &item.NameEn,
			&item.Unit, &price, &item.Qty, &lineTotal, &item.ImageURL,
		); err != nil {
			return err
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("bad item price %q: %w", price, err)
		}
		if item.LineTotal, err = decimal.NewFromString(lineTotal); err != nil {
			return fmt.Errorf("bad line total %q: %w", lineTotal, err)
		}
		byID[orderID].Items = append(byID[orderID].Items, item)
	}
	return itemRows.Err()
}

func (or *OrderRepo) loadHistory(ctx context.Context, ids []int64, byID map[int64]*models.Order) error {
	historyRows, err := or.db.GetPool().Query(ctx, `
		SELECT order_id, id, status, COALESCE(changed_by, 0), created_at
		FROM order_status_history
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load status history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var orderID int64
		var change models.StatusChange
		var status string
		if err := historyRows.Scan(&orderID, &change.ID, &status, &change.ChangedBy, &change.CreatedAt); err != nil {
			return err
		}
		change.Status = models.OrderStatus(status)
		byID[orderID].StatusHistory = append(byID[orderID].StatusHistory, change)
	}
	return historyRows.Err()
}

// scanOrder reads one orderColumns row. Numeric columns travel as text and
// parse into decimals so totals stay exact.
func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	var subtotal, deliveryFee, total, status string
	var customer models.CustomerInfo

	err := row.Scan(
		&o.ID, &o.UserID,
		&o.Address.ZoneID, &o.Address.ZoneName,
		&o.Address.Street, &o.Address.Building,
		&o.Address.Details, &o.Address.LocationLink,
		&subtotal, &deliveryFee, &total,
		&o.PaymentMethod, &status, &o.RejectionReason,
		&o.AcceptedBy, &o.AcceptedAt, &o.RejectedBy, &o.RejectedAt,
		&o.CreatedAt, &o.UpdatedAt,
		&customer.Name, &customer.Email, &customer.Phone,
	)
	if err != nil {
		return models.Order{}, err
	}

	o.Status = models.OrderStatus(status)
	o.Customer = &customer
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return models.Order{}, fmt.Errorf("bad subtotal %q: %w", subtotal, err)
	}
	if o.DeliveryFee, err = decimal.NewFromString(deliveryFee); err != nil {
		return models.Order{}, fmt.Errorf("bad delivery fee %q: %w", deliveryFee, err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return models.Order{}, fmt.Errorf("bad total %q: %w", total, err)
	}
	return o, nil
}
