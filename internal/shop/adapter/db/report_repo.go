package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"veggie-orders/internal/shop/domain/dto"
	xdb "veggie-orders/internal/xpkg/db"
	"veggie-orders/pkg/logger"
)

// ReportRepo aggregates order data for the admin dashboard and accounting.
type ReportRepo struct {
	db     *xdb.DB
	orders *OrderRepo
	log    logger.Logger
}

func NewReportRepo(db *xdb.DB, orders *OrderRepo, log logger.Logger) *ReportRepo {
	return &ReportRepo{db: db, orders: orders, log: log}
}

func (rr *ReportRepo) Stats(ctx context.Context, from time.Time) (dto.StatsReport, error) {
	var report dto.StatsReport
	pool := rr.db.GetPool()

	var revenue string
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0)::text
		FROM orders
		WHERE created_at >= $1
	`, from).Scan(&report.Orders.Total, &revenue)
	if err != nil {
		return dto.StatsReport{}, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	if report.Orders.Revenue, err = decimal.NewFromString(revenue); err != nil {
		return dto.StatsReport{}, fmt.Errorf("bad revenue %q: %w", revenue, err)
	}

	report.Orders.ByStatus = map[string]int64{}
	rows, err := pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		WHERE created_at >= $1
		GROUP BY status
	`, from)
	if err != nil {
		return dto.StatsReport{}, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return dto.StatsReport{}, err
		}
		report.Orders.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return dto.StatsReport{}, err
	}

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&report.Users); err != nil {
		return dto.StatsReport{}, fmt.Errorf("failed to count users: %w", err)
	}

	q := `
	SELECT ` + orderColumns + `
	FROM orders o
	JOIN users u ON u.id = o.user_id
	ORDER BY o.created_at DESC
	LIMIT 10`
	recent, err := rr.orders.queryOrders(ctx, q)
	if err != nil {
		return dto.StatsReport{}, fmt.Errorf("failed to load recent orders: %w", err)
	}
	report.RecentOrders = recent

	return report, nil
}

// Accounting only counts delivered orders: money is recognized on delivery
// (cash-on-delivery).
func (rr *ReportRepo) Accounting(ctx context.Context, from, to *time.Time) (dto.AccountingReport, error) {
	where := `o.status = 'delivered'`
	args := []any{}
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(" AND o.created_at <= $%d", len(args))
	}

	var report dto.AccountingReport
	var revenue, fees, subtotals string
	err := rr.db.GetPool().QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(o.total), 0)::text,
		       COALESCE(SUM(o.delivery_fee), 0)::text,
		       COALESCE(SUM(o.subtotal), 0)::text
		FROM orders o
		WHERE `+where, args...).Scan(
		&report.Stats.TotalOrders, &revenue, &fees, &subtotals,
	)
	if err != nil {
		return dto.AccountingReport{}, fmt.Errorf("failed to aggregate accounting: %w", err)
	}
	if report.Stats.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
		return dto.AccountingReport{}, fmt.Errorf("bad revenue %q: %w", revenue, err)
	}
	if report.Stats.TotalDeliveryFees, err = decimal.NewFromString(fees); err != nil {
		return dto.AccountingReport{}, fmt.Errorf("bad fees %q: %w", fees, err)
	}
	if report.Stats.TotalSubtotals, err = decimal.NewFromString(subtotals); err != nil {
		return dto.AccountingReport{}, fmt.Errorf("bad subtotals %q: %w", subtotals, err)
	}

	q := `
	SELECT ` + orderColumns + `
	FROM orders o
	JOIN users u ON u.id = o.user_id
	WHERE ` + where + `
	ORDER BY o.created_at DESC
	LIMIT 50`
	orders, err := rr.orders.queryOrders(ctx, q, args...)
	if err != nil {
		return dto.AccountingReport{}, fmt.Errorf("failed to load delivered orders: %w", err)
	}
	report.Orders = orders

	return report, nil
}
