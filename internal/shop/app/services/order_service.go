package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/shop/domain/models"
	"veggie-orders/pkg/logger"
)

type OrderService struct {
	orders    core.IOrderRepo
	catalog   core.ICatalogRepo
	users     core.IUserRepo
	publisher core.IPublisher
	mylog     logger.Logger
}

func NewOrderService(
	orders core.IOrderRepo,
	catalog core.ICatalogRepo,
	users core.IUserRepo,
	publisher core.IPublisher,
	mylog logger.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		catalog:   catalog,
		users:     users,
		publisher: publisher,
		mylog:     mylog,
	}
}

// Create validates the cart and address, re-derives every price from the
// catalog and persists the order atomically. Client-supplied prices are
// never trusted.
func (os *OrderService) Create(ctx context.Context, session models.Session, req dto.CreateOrderRequest) (dto.CreateOrderResponse, error) {
	mylog := os.mylog.Action("create_order").With("user_id", session.UserID)

	if len(req.Items) == 0 {
		return dto.CreateOrderResponse{}, core.ErrEmptyCart
	}
	if req.Address.ZoneID == 0 || req.Address.Street == "" || req.Address.Building == "" {
		return dto.CreateOrderResponse{}, core.ErrIncompleteAddress
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := os.catalog.GetActiveProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, core.ErrProductUnavailable) {
				return dto.CreateOrderResponse{}, fmt.Errorf("%w: product %d", core.ErrProductUnavailable, line.ProductID)
			}
			mylog.Error("Failed to load product", err, "product_id", line.ProductID)
			return dto.CreateOrderResponse{}, fmt.Errorf("load product %d: %w", line.ProductID, err)
		}

		unit, ok := product.UnitPriceFor(line.Unit)
		if !ok {
			return dto.CreateOrderResponse{}, fmt.Errorf("%w: %q for %s", core.ErrUnitUnavailable, line.Unit, product.NameAr)
		}

		if line.Qty <= 0 || line.Qty > core.MaxItemQuantity {
			return dto.CreateOrderResponse{}, core.ErrInvalidQuantity
		}

		lineTotal := unit.Price.Mul(decimal.NewFromInt(int64(line.Qty)))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			NameAr:    product.NameAr,
			NameEn:    product.NameEn,
			Unit:      line.Unit,
			Price:     unit.Price,
			Qty:       line.Qty,
			LineTotal: lineTotal,
			ImageURL:  product.ImageURL,
		})
	}

	zone, err := os.catalog.GetZone(ctx, req.Address.ZoneID)
	if err != nil {
		if errors.Is(err, core.ErrZoneNotFound) {
			return dto.CreateOrderResponse{}, core.ErrZoneNotFound
		}
		mylog.Error("Failed to load zone", err, "zone_id", req.Address.ZoneID)
		return dto.CreateOrderResponse{}, fmt.Errorf("load zone %d: %w", req.Address.ZoneID, err)
	}
	if !zone.Active {
		return dto.CreateOrderResponse{}, core.ErrZoneNotFound
	}

	total := subtotal.Add(zone.Fee)

	order := models.Order{
		UserID: session.UserID,
		Address: models.Address{
			ZoneID:       zone.ID,
			ZoneName:     zone.NameAr,
			Street:       req.Address.Street,
			Building:     req.Address.Building,
			Details:      req.Address.Details,
			LocationLink: req.Address.LocationLink,
		},
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   zone.Fee,
		Total:         total,
		PaymentMethod: core.DefaultPaymentMethod,
		Status:        models.StatusPending,
	}

	if err := os.orders.Create(ctx, &order); err != nil {
		mylog.Error("Failed to save order", err)
		return dto.CreateOrderResponse{}, fmt.Errorf("cannot save order: %w", err)
	}

	mylog.Info("Order created", "order_id", order.ID, "total", total.String())
	os.notifyCreated(session, order)

	return dto.CreateOrderResponse{OrderID: order.ID, Total: total}, nil
}

// notifyCreated publishes the order-created event. Fire-and-forget: a broker
// failure must never fail the order-creation response.
func (os *OrderService) notifyCreated(session models.Session, order models.Order) {
	evt := dto.OrderCreatedEvent{
		OrderID:      order.ID,
		CustomerName: session.Username,
		ZoneName:     order.Address.ZoneName,
		Street:       order.Address.Street,
		Total:        order.Total,
		CreatedAt:    order.CreatedAt,
	}
	for _, it := range order.Items {
		evt.Items = append(evt.Items, dto.EventItem{NameAr: it.NameAr, Unit: it.Unit, Qty: it.Qty})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), core.WaitTime*time.Second)
		defer cancel()

		if user, err := os.users.GetByID(ctx, session.UserID); err == nil {
			if user.DisplayName != "" {
				evt.CustomerName = user.DisplayName
			}
			evt.CustomerPhone = user.Phone
		}

		if err := os.publisher.OrderCreated(ctx, evt); err != nil {
			os.mylog.Action("publish_failed").Error("Failed to publish order-created event", err, "order_id", order.ID)
		}
	}()
}

// ListMine returns the caller's orders, newest first, with items and history.
func (os *OrderService) ListMine(ctx context.Context, session models.Session) ([]models.Order, error) {
	return os.orders.ListByUser(ctx, session.UserID)
}

// Get returns a single order. Customers may only read their own.
func (os *OrderService) Get(ctx context.Context, session models.Session, id int64) (models.Order, error) {
	order, err := os.orders.Get(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != session.UserID && !session.IsStaff() {
		return models.Order{}, core.ErrForbidden
	}
	return order, nil
}

// ListBoard returns all orders for the cashier board, optionally filtered
// by status.
func (os *OrderService) ListBoard(ctx context.Context, session models.Session, status string) ([]models.Order, error) {
	if !session.IsStaff() {
		return nil, core.ErrForbidden
	}
	return os.orders.ListAll(ctx, status)
}

// Transition moves an order through the status machine. Only cashier and
// admin principals may call it; the adjacency graph is enforced by the
// repository inside the same transaction that appends history.
func (os *OrderService) Transition(ctx context.Context, session models.Session, orderID int64, req dto.TransitionRequest) error {
	if !session.IsStaff() {
		return core.ErrForbidden
	}

	next, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return fmt.Errorf("%w: %q", core.ErrInvalidStatus, req.Status)
	}

	if err := os.orders.Transition(ctx, orderID, next, session.UserID, req.RejectionReason); err != nil {
		if errors.Is(err, core.ErrOrderNotFound) || errors.Is(err, core.ErrInvalidTransition) {
			return err
		}
		os.mylog.Action("transition_failed").Error("Failed to transition order", err, "order_id", orderID, "status", req.Status)
		return fmt.Errorf("transition order %d: %w", orderID, err)
	}

	os.mylog.Action("order_transitioned").Info("Order status updated",
		"order_id", orderID, "status", string(next), "actor", session.UserID)
	return nil
}
