package broker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/pkg/rabbitmq"
)

// Publisher pushes order-created events onto the notifications fanout
// exchange. The subscriber service picks them up and emails the cashiers.
type Publisher struct {
	mq *rabbitmq.RabbitMQ
}

func NewPublisher(mq *rabbitmq.RabbitMQ) *Publisher {
	return &Publisher{mq: mq}
}

func (p *Publisher) OrderCreated(ctx context.Context, evt dto.OrderCreatedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.mq.Channel.PublishWithContext(ctx,
		rabbitmq.OrdersExchange, // exchange
		"",                      // routing key (fanout ignores it)
		false,                   // mandatory
		false,                   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish order-created: %w", err)
	}
	return nil
}
