package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	Exchange   = "vh7.mail"
	RoutingKey = "mail.send"
)

// Publisher is the part of *amqp.Channel the sender needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSender queues messages for a mail worker as JSON.
type AMQPSender struct {
	publisher Publisher
}

func NewAMQPSender(publisher Publisher) *AMQPSender {
	return &AMQPSender{publisher: publisher}
}

func (s *AMQPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("can`t marshal message: %w", err)
	}

	err = s.publisher.PublishWithContext(ctx,
		Exchange,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("can`t publish message: %w", err)
	}

	return nil
}

// DialAMQP connects to the broker and declares the mail exchange.
func DialAMQP(connectURL string, logger *zap.Logger) (*amqp.Connection, *amqp.Channel, error) {
	logger.Debug("creating amqp connection")
	conn, err := amqp.Dial(connectURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to create a rabbitmq channel: %w", err)
	}

	logger.Debug("declaring amqp exchange", zap.String("exchange", Exchange))
	err = ch.ExchangeDeclare(
		Exchange,
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return conn, ch, nil
}
