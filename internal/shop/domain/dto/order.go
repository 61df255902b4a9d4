package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is what the client submits. Any price the client attaches is
// ignored; the service re-reads prices from the catalog.
type CartLine struct {
	ProductID int64  `json:"productId"`
	Unit      string `json:"unit"`
	Qty       int    `json:"qty"`
}

type AddressRequest struct {
	ZoneID       int64  `json:"zoneId"`
	Street       string `json:"street"`
	Building     string `json:"building"`
	Details      string `json:"details,omitempty"`
	LocationLink string `json:"locationLink,omitempty"`
}

type CreateOrderRequest struct {
	Items   []CartLine     `json:"items"`
	Address AddressRequest `json:"address"`
}

type CreateOrderResponse struct {
	OrderID int64           `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

type TransitionRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// OrderCreatedEvent is the message published to the notifications exchange
// after an order commits.
type OrderCreatedEvent struct {
	OrderID       int64           `json:"orderId"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	ZoneName      string          `json:"zoneName"`
	Street        string          `json:"street"`
	Total         decimal.Decimal `json:"total"`
	Items         []EventItem     `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type EventItem struct {
	NameAr string `json:"nameAr"`
	Unit   string `json:"unit"`
	Qty    int    `json:"qty"`
}
