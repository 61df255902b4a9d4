package handle

import (
	"context"
	"net/http"
	"time"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/app/services"
	"veggie-orders/pkg/logger"
)

// CatalogHandler serves the public storefront reads.
type CatalogHandler struct {
	catalogService *services.CatalogService
	mylog          logger.Logger
}

func NewCatalogHandler(catalogService *services.CatalogService, mylog logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		mylog:          mylog,
	}
}

func (ch *CatalogHandler) Products() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		products, err := ch.catalogService.ActiveProducts(ctx)
		if err != nil {
			writeError(w, ch.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, products)
	}
}

func (ch *CatalogHandler) Categories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		categories, err := ch.catalogService.Categories(ctx)
		if err != nil {
			writeError(w, ch.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, categories)
	}
}

func (ch *CatalogHandler) Zones() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		zones, err := ch.catalogService.ActiveZones(ctx)
		if err != nil {
			writeError(w, ch.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, zones)
	}
}

func (ch *CatalogHandler) Offers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		offers, err := ch.catalogService.ActiveOffers(ctx)
		if err != nil {
			writeError(w, ch.mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, offers)
	}
}
