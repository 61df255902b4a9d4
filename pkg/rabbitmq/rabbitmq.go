package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"veggie-orders/internal/xpkg/config"
	"veggie-orders/pkg/logger"
)

// OrdersExchange is the fanout exchange order-created events go through.
const OrdersExchange = "orders_fanout"

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	log     logger.Logger
}

func ConnectRabbitMQ(cfg *config.RabbitMQ, log logger.Logger) (*RabbitMQ, error) {
	connStr := fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.VHost)

	conn, err := amqp.Dial(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		OrdersExchange, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Action("mb_connected").Info("Connected to RabbitMQ", "host", cfg.Host)
	return &RabbitMQ{Conn: conn, Channel: ch, log: log}, nil
}

func (r *RabbitMQ) Close() error {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			return fmt.Errorf("channel close: %w", err)
		}
	}
	if r.Conn != nil {
		if err := r.Conn.Close(); err != nil {
			return fmt.Errorf("connection close: %w", err)
		}
	}
	return nil
}
