package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusAccepted       OrderStatus = "accepted"
	StatusRejected       OrderStatus = "rejected"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
)

// transitions is the allowed adjacency graph. rejected is only reachable
// from pending; delivered and rejected are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusAccepted, StatusRejected},
	StatusAccepted:       {StatusPreparing},
	StatusPreparing:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
}

// ParseOrderStatus validates a caller-supplied transition target. pending is
// the creation status and is never a valid target.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusAccepted, StatusRejected, StatusPreparing, StatusOutForDelivery, StatusDelivered:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

// Address is the destination captured on the order at creation time.
type Address struct {
	ZoneID       int64  `json:"zoneId"`
	ZoneName     string `json:"zoneName"`
	Street       string `json:"street"`
	Building     string `json:"building"`
	Details      string `json:"details,omitempty"`
	LocationLink string `json:"locationLink,omitempty"`
}

// OrderItem is a frozen copy of product name/unit/price at order time; it
// does not follow later catalog changes.
type OrderItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	NameAr    string          `json:"nameAr"`
	NameEn    string          `json:"nameEn,omitempty"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

// StatusChange is one append-only history record. The last entry's status
// always equals the order's current status.
type StatusChange struct {
	ID        int64       `json:"id"`
	Status    OrderStatus `json:"status"`
	ChangedBy int64       `json:"changedBy"`
	CreatedAt time.Time   `json:"createdAt"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Customer        *CustomerInfo   `json:"customer,omitempty"`
	Address         Address         `json:"address"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          OrderStatus     `json:"status"`
	RejectionReason *string         `json:"rejectionReason"`
	AcceptedBy      *int64          `json:"acceptedBy,omitempty"`
	AcceptedAt      *time.Time      `json:"acceptedAt,omitempty"`
	RejectedBy      *int64          `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	StatusHistory   []StatusChange  `json:"statusHistory"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
