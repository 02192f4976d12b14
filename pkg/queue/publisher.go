package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends receipts to a durable queue on the default exchange.
type Publisher struct {
	url   string
	queue string
	log   *zap.Logger
}

func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
	return &Publisher{
		url:   url,
		queue: queue,
		log:   log.With(zap.String("component", "receipt_publisher")),
	}
}

// PublishReceipt dials, declares the queue and publishes one persistent
// message. Errors are logged and returned so the caller can ignore them.
func (p *Publisher) PublishReceipt(ctx context.Context, msg ReceiptMessage) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("RabbitMQ dial failed", zap.Error(err))
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("RabbitMQ channel open failed", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Warn("RabbitMQ queue declare failed", zap.Error(err), zap.String("queue", p.queue))
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    msg.PaymentID,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Warn("RabbitMQ publish failed", zap.Error(err), zap.String("cart_id", msg.CartID))
		return fmt.Errorf("publish receipt for cart %s: %w", msg.CartID, err)
	}

	p.log.Info("Receipt published",
		zap.String("cart_id", msg.CartID),
		zap.String("queue", p.queue),
	)
	return nil
}
