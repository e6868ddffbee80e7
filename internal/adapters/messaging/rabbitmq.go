package messaging

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/config"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// channel is the part of *amqp.Channel the broker publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker publishes outbox events to a durable queue on the default
// exchange. The event type travels in the message Type property and the
// outbox row id in MessageId, so consumers can deduplicate redeliveries.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        channel
	queueName string
	cb        *gobreaker.CircuitBreaker
	now       func() time.Time
}

var _ ports.EventPublisher = (*RabbitMQBroker)(nil)

func NewRabbitMQBroker(amqpURL, queueName string, log logrus.FieldLogger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	broker := newBroker(ch, queueName, config.NewCircuitBreaker("RabbitMQ-Publisher", log))
	broker.conn = conn
	return broker, nil
}

func newBroker(ch channel, queueName string, cb *gobreaker.CircuitBreaker) *RabbitMQBroker {
	return &RabbitMQBroker{
		ch:        ch,
		queueName: queueName,
		cb:        cb,
		now:       time.Now,
	}
}

func (b *RabbitMQBroker) Publish(ctx context.Context, evt ports.OutboxEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Type:         evt.EventType,
		Timestamp:    b.now().UTC(),
		Body:         evt.Payload,
	}
	publish := func() (interface{}, error) {
		return nil, b.ch.PublishWithContext(
			ctx,
			"",          // default exchange
			b.queueName, // routing key == queue name
			false,       // mandatory
			false,       // immediate
			msg,
		)
	}

	if b.cb == nil {
		_, err := publish()
		return err
	}
	_, err := b.cb.Execute(publish)
	return err
}

// Ping reports whether the broker connection is still open.
func (b *RabbitMQBroker) Ping(ctx context.Context) error {
	if b.conn == nil || b.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (b *RabbitMQBroker) Close() error {
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			return err
		}
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
