package dto

import (
	"github.com/shopspring/decimal"

	"veggie-orders/internal/shop/domain/models"
)

type ZoneRequest struct {
	ID        int64           `json:"id,omitempty"`
	NameAr    string          `json:"nameAr"`
	NameEn    string          `json:"nameEn,omitempty"`
	Fee       decimal.Decimal `json:"fee"`
	Active    *bool           `json:"active,omitempty"`
	SortOrder int             `json:"sortOrder,omitempty"`
}

type CategoryRequest struct {
	ID        int64  `json:"id,omitempty"`
	NameAr    string `json:"nameAr"`
	NameEn    string `json:"nameEn,omitempty"`
	SortOrder int    `json:"sortOrder,omitempty"`
}

type OfferRequest struct {
	ID         int64  `json:"id,omitempty"`
	TitleAr    string `json:"titleAr"`
	TitleEn    string `json:"titleEn,omitempty"`
	SubtitleAr string `json:"subtitleAr,omitempty"`
	SubtitleEn string `json:"subtitleEn,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Priority   int    `json:"priority,omitempty"`
	Active     *bool  `json:"active,omitempty"`
}

type UnitRequest struct {
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	IsDefault bool            `json:"isDefault,omitempty"`
}

type ProductRequest struct {
	ID            int64         `json:"id,omitempty"`
	NameAr        string        `json:"nameAr"`
	NameEn        string        `json:"nameEn,omitempty"`
	DescriptionAr string        `json:"descriptionAr,omitempty"`
	DescriptionEn string        `json:"descriptionEn,omitempty"`
	CategoryID    int64         `json:"categoryId,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	Active        *bool         `json:"active,omitempty"`
	Units         []UnitRequest `json:"units"`
}

type DeleteRequest struct {
	ID int64 `json:"id"`
}

type OrderStats struct {
	Total    int64            `json:"total"`
	Revenue  decimal.Decimal  `json:"revenue"`
	ByStatus map[string]int64 `json:"byStatus"`
}

type StatsReport struct {
	Orders       OrderStats     `json:"orders"`
	Users        int64          `json:"users"`
	RecentOrders []models.Order `json:"recentOrders"`
}

type AccountingStats struct {
	TotalOrders       int64           `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalDeliveryFees decimal.Decimal `json:"totalDeliveryFees"`
	TotalSubtotals    decimal.Decimal `json:"totalSubtotals"`
}

type AccountingReport struct {
	Stats  AccountingStats `json:"stats"`
	Orders []models.Order  `json:"orders"`
}
