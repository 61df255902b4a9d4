package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/pkg/logger"
)

// ReportService backs the admin dashboard and the accounting export.
type ReportService struct {
	reports core.IReportRepo
	mylog   logger.Logger
}

func NewReportService(reports core.IReportRepo, mylog logger.Logger) *ReportService {
	return &ReportService{reports: reports, mylog: mylog}
}

// Stats aggregates order counts and revenue over a rolling range. Staff only.
func (rs *ReportService) Stats(ctx context.Context, session models.Session, rangeKey string) (dto.StatsReport, error) {
	if !session.IsStaff() {
		return dto.StatsReport{}, core.ErrForbidden
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch rangeKey {
	case "week":
		from = from.AddDate(0, 0, -7)
	case "month":
		from = from.AddDate(0, -1, 0)
	case "today", "":
	default:
		return dto.StatsReport{}, fmt.Errorf("%w: range %q", core.ErrInvalidStatus, rangeKey)
	}

	return rs.reports.Stats(ctx, from)
}

// Accounting reports delivered-order totals over an optional date range.
// Admin only.
func (rs *ReportService) Accounting(ctx context.Context, session models.Session, from, to *time.Time) (dto.AccountingReport, error) {
	if session.Role != models.RoleAdmin {
		return dto.AccountingReport{}, core.ErrForbidden
	}
	return rs.reports.Accounting(ctx, from, to)
}

// WriteAccountingCSV streams the accounting report as CSV.
func (rs *ReportService) WriteAccountingCSV(w io.Writer, report dto.AccountingReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"order_id", "created_at", "zone", "subtotal", "delivery_fee", "total", "status"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, o := range report.Orders {
		row := []string{
			fmt.Sprintf("%d", o.ID),
			o.CreatedAt.UTC().Format(time.RFC3339),
			o.Address.ZoneName,
			o.Subtotal.StringFixed(2),
			o.DeliveryFee.StringFixed(2),
			o.Total.StringFixed(2),
			string(o.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
