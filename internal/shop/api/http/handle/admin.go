package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/app/services"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/pkg/logger"
)

// AdminHandler serves the cashier board, dashboard stats, accounting and the
// back-office catalog CRUD.
type AdminHandler struct {
	orderService   *services.OrderService
	catalogService *services.CatalogService
	reportService  *services.ReportService
	mylog          logger.Logger
}

func NewAdminHandler(
	orderService *services.OrderService,
	catalogService *services.CatalogService,
	reportService *services.ReportService,
	mylog logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		orderService:   orderService,
		catalogService: catalogService,
		reportService:  reportService,
		mylog:          mylog,
	}
}

// Board lists all orders for the cashier dashboard, optionally filtered by
// ?status=.
func (h *AdminHandler) Board() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		orders, err := h.orderService.ListBoard(ctx, session, r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, h.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, orders)
	}
}

func (h *AdminHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		report, err := h.reportService.Stats(ctx, session, r.URL.Query().Get("range"))
		if err != nil {
			writeError(w, h.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, report)
	}
}

// Accounting reports delivered-order totals; ?format=csv streams the export.
func (h *AdminHandler) Accounting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := SessionFrom(r.Context())

		from, err := parseDateParam(r.URL.Query().Get("from"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid from date"))
			return
		}
		to, err := parseDateParam(r.URL.Query().Get("to"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("invalid to date"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		report, err := h.reportService.Accounting(ctx, session, from, to)
		if err != nil {
			writeError(w, h.mylog, err)
			return
		}

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="accounting.csv"`)
			if err := h.reportService.WriteAccountingCSV(w, report); err != nil {
				h.mylog.Action("csv_export_failed").Error("Failed to stream accounting CSV", err)
			}
			return
		}
		jsonResponse(w, http.StatusOK, report)
	}
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unparseable date")
}

// Catalog CRUD. All of these run behind RequireAdmin.

func (h *AdminHandler) ListZones() http.HandlerFunc {
	return h.list(func(ctx context.Context) (any, error) { return h.catalogService.AllZones(ctx) })
}

func (h *AdminHandler) CreateZone() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.ZoneRequest) (any, error) {
		return h.catalogService.CreateZone(ctx, req)
	})
}

func (h *AdminHandler) UpdateZone() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.ZoneRequest) (any, error) {
		return h.catalogService.UpdateZone(ctx, req)
	})
}

func (h *AdminHandler) DeleteZone() http.HandlerFunc {
	return h.remove(h.catalogService.DeleteZone)
}

func (h *AdminHandler) ListCategories() http.HandlerFunc {
	return h.list(func(ctx context.Context) (any, error) { return h.catalogService.Categories(ctx) })
}

func (h *AdminHandler) CreateCategory() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.CategoryRequest) (any, error) {
		return h.catalogService.CreateCategory(ctx, req)
	})
}

func (h *AdminHandler) UpdateCategory() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.CategoryRequest) (any, error) {
		return h.catalogService.UpdateCategory(ctx, req)
	})
}

func (h *AdminHandler) DeleteCategory() http.HandlerFunc {
	return h.remove(h.catalogService.DeleteCategory)
}

func (h *AdminHandler) ListOffers() http.HandlerFunc {
	return h.list(func(ctx context.Context) (any, error) { return h.catalogService.AllOffers(ctx) })
}

func (h *AdminHandler) CreateOffer() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.OfferRequest) (any, error) {
		return h.catalogService.CreateOffer(ctx, req)
	})
}

func (h *AdminHandler) UpdateOffer() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.OfferRequest) (any, error) {
		return h.catalogService.UpdateOffer(ctx, req)
	})
}

func (h *AdminHandler) DeleteOffer() http.HandlerFunc {
	return h.remove(h.catalogService.DeleteOffer)
}

func (h *AdminHandler) ListProducts() http.HandlerFunc {
	return h.list(func(ctx context.Context) (any, error) { return h.catalogService.AllProducts(ctx) })
}

func (h *AdminHandler) CreateProduct() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.ProductRequest) (any, error) {
		return h.catalogService.CreateProduct(ctx, req)
	})
}

func (h *AdminHandler) UpdateProduct() http.HandlerFunc {
	return crud(h, func(ctx context.Context, req dto.ProductRequest) (any, error) {
		return h.catalogService.UpdateProduct(ctx, req)
	})
}

func (h *AdminHandler) DeleteProduct() http.HandlerFunc {
	return h.remove(h.catalogService.DeleteProduct)
}

func (h *AdminHandler) list(load func(ctx context.Context) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		out, err := load(ctx)
		if err != nil {
			writeError(w, h.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, out)
	}
}

func (h *AdminHandler) remove(del func(ctx context.Context, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.DeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
			jsonError(w, http.StatusBadRequest, errors.New("id is required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		if err := del(ctx, req.ID); err != nil {
			writeError(w, h.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// crud decodes the request body and runs one catalog write.
func crud[R any](h *AdminHandler, write func(ctx context.Context, req R) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req R
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		out, err := write(ctx, req)
		if err != nil {
			writeError(w, h.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, out)
	}
}
