package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/pkg/logger"
)

type memReports struct {
	lastFrom time.Time
	stats    dto.StatsReport
	acct     dto.AccountingReport
}

func (m *memReports) Stats(ctx context.Context, from time.Time) (dto.StatsReport, error) {
	m.lastFrom = from
	return m.stats, nil
}

func (m *memReports) Accounting(ctx context.Context, from, to *time.Time) (dto.AccountingReport, error) {
	return m.acct, nil
}

func adminSession() models.Session {
	return models.Session{UserID: 1, Role: models.RoleAdmin}
}

func TestStatsAuthorization(t *testing.T) {
	svc := NewReportService(&memReports{}, logger.Discard())

	_, err := svc.Stats(context.Background(), models.Session{Role: models.RoleCustomer}, "today")
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.Stats(context.Background(), models.Session{Role: models.RoleCashier}, "today")
	assert.NoError(t, err, "cashiers see the dashboard")
}

func TestStatsRange(t *testing.T) {
	repo := &memReports{}
	svc := NewReportService(repo, logger.Discard())

	_, err := svc.Stats(context.Background(), adminSession(), "week")
	require.NoError(t, err)
	weekAgo := time.Now().AddDate(0, 0, -7)
	assert.WithinDuration(t, weekAgo, repo.lastFrom, 25*time.Hour)

	_, err = svc.Stats(context.Background(), adminSession(), "")
	require.NoError(t, err, "empty range defaults to today")
	assert.Equal(t, 0, repo.lastFrom.Hour(), "range starts at midnight")

	_, err = svc.Stats(context.Background(), adminSession(), "quarter")
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
}

func TestAccountingAdminOnly(t *testing.T) {
	svc := NewReportService(&memReports{}, logger.Discard())

	_, err := svc.Accounting(context.Background(), models.Session{Role: models.RoleCashier}, nil, nil)
	assert.ErrorIs(t, err, core.ErrForbidden, "accounting is admin-only, not staff-wide")

	_, err = svc.Accounting(context.Background(), adminSession(), nil, nil)
	assert.NoError(t, err)
}

func TestWriteAccountingCSV(t *testing.T) {
	svc := NewReportService(&memReports{}, logger.Discard())

	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	report := dto.AccountingReport{
		Orders: []models.Order{{
			ID:          7,
			Address:     models.Address{ZoneName: "الجبيهة"},
			Subtotal:    dec("1.50"),
			DeliveryFee: dec("1.00"),
			Total:       dec("2.50"),
			Status:      models.StatusDelivered,
			CreatedAt:   created,
		}},
	}

	var out strings.Builder
	require.NoError(t, svc.WriteAccountingCSV(&out, report))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "order_id,created_at,zone,subtotal,delivery_fee,total,status", lines[0])
	assert.Equal(t, "7,2026-03-14T10:30:00Z,الجبيهة,1.50,1.00,2.50,delivered", lines[1])
}
