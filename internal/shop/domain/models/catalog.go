package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64     `json:"id"`
	NameAr    string    `json:"nameAr"`
	NameEn    string    `json:"nameEn,omitempty"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnitPrice is one (unit label, price) pair attached to a product,
// e.g. price per kilogram vs price per piece.
type UnitPrice struct {
	ID        int64           `json:"id"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	IsDefault bool            `json:"isDefault"`
}

type Product struct {
	ID            int64       `json:"id"`
	NameAr        string      `json:"nameAr"`
	NameEn        string      `json:"nameEn,omitempty"`
	DescriptionAr string      `json:"descriptionAr,omitempty"`
	DescriptionEn string      `json:"descriptionEn,omitempty"`
	CategoryID    int64       `json:"categoryId,omitempty"`
	ImageURL      string      `json:"imageUrl,omitempty"`
	Active        bool        `json:"active"`
	Units         []UnitPrice `json:"units"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// UnitPriceFor returns the configured price for the requested unit label.
func (p Product) UnitPriceFor(unit string) (UnitPrice, bool) {
	for _, u := range p.Units {
		if u.Unit == unit {
			return u, true
		}
	}
	return UnitPrice{}, false
}

type DeliveryZone struct {
	ID        int64           `json:"id"`
	NameAr    string          `json:"nameAr"`
	NameEn    string          `json:"nameEn,omitempty"`
	Fee       decimal.Decimal `json:"fee"`
	Active    bool            `json:"active"`
	SortOrder int             `json:"sortOrder"`
}

type Offer struct {
	ID         int64     `json:"id"`
	TitleAr    string    `json:"titleAr"`
	TitleEn    string    `json:"titleEn,omitempty"`
	SubtitleAr string    `json:"subtitleAr,omitempty"`
	SubtitleEn string    `json:"subtitleEn,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	Priority   int       `json:"priority"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}
