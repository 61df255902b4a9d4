package broker

import (
	"context"

	"veggie-orders/internal/shop/domain/dto"
)

// NoopPublisher stands in when no message broker is configured. Order
// creation never depends on the broker being reachable.
type NoopPublisher struct{}

func (NoopPublisher) OrderCreated(ctx context.Context, evt dto.OrderCreatedEvent) error {
	return nil
}
