package subscriber

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"veggie-orders/internal/notifier/mailer"
	"veggie-orders/internal/shop/domain/dto"
	"veggie-orders/internal/xpkg/config"
	"veggie-orders/pkg/logger"
	"veggie-orders/pkg/rabbitmq"
)

const queueName = "order_emails"

// Subscriber consumes order-created events from the fanout exchange and
// hands them to the mailer.
type Subscriber struct {
	cfg    *config.Config
	mylog  logger.Logger
	mq     *rabbitmq.RabbitMQ
	mailer *mailer.Mailer
}

func New(cfg *config.Config, mylog logger.Logger) *Subscriber {
	return &Subscriber{
		cfg:   cfg,
		mylog: mylog,
	}
}

// Run connects, binds the queue and consumes until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	mq, err := rabbitmq.ConnectRabbitMQ(s.cfg.RMQ, s.mylog)
	if err != nil {
		return err
	}
	s.mq = mq
	s.mailer = mailer.New(s.cfg.SMTP, s.mylog)

	if _, err := s.mq.Channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // auto-delete
		false,     // exclusive
		false,     // no-wait
		nil,       // args
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := s.mq.Channel.QueueBind(queueName, "", rabbitmq.OrdersExchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	return s.consume(ctx)
}

func (s *Subscriber) consume(ctx context.Context) error {
	msgs, err := s.mq.Channel.Consume(
		queueName,
		"order-email-sub", // consumer
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	s.mylog.Action("consuming_started").Info("Started consuming order events", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			s.process(msg)
		}
	}
}

func (s *Subscriber) process(msg amqp.Delivery) {
	var evt dto.OrderCreatedEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		s.mylog.Action("event_parse_failed").Error("Dropping malformed order event", err)
		msg.Nack(false, false) // don't requeue
		return
	}

	if err := s.mailer.OrderCreated(evt); err != nil {
		s.mylog.Action("order_email_failed").Error("Failed to send order email", err,
			"order_id", evt.OrderID)
		msg.Nack(false, true) // requeue once broker-side policy allows
		return
	}

	msg.Ack(false)
}

func (s *Subscriber) Stop() error {
	if s.mq != nil {
		return s.mq.Close()
	}
	return nil
}
