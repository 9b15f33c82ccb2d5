// Package consumer provides RabbitMQ consumer functionality for handling
// incoming request events.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Koyo-os/template-service/internal/entity"
	"github.com/Koyo-os/template-service/pkg/config"
	"github.com/Koyo-os/template-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EXCHANGE_TYPE routes messages on exact routing-key match.
const EXCHANGE_TYPE = "direct"

// Consumer wraps a RabbitMQ channel bound to the request exchange and turns
// deliveries into entity.Event values.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
	cfg     *config.Config
}

// Init creates a Consumer and declares the request exchange.
func Init(cfg *config.Config, logger *logger.Logger, conn *amqp.Connection) (*Consumer, error) {
	if cfg == nil || logger == nil || conn == nil {
		return nil, fmt.Errorf("invalid parameters: cfg, logger, and conn cannot be nil")
	}

	channel, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", zap.Error(err))
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		cfg.Exchange.Request,
		EXCHANGE_TYPE,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		logger.Error("failed to declare exchange",
			zap.String("exchange", cfg.Exchange.Request),
			zap.Error(err))
		channel.Close()
		return nil, err
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		logger:  logger,
		cfg:     cfg,
	}, nil
}

// Subscribe declares the queue and binds it to the request exchange with the
// given routing key.
func (c *Consumer) Subscribe(routingKey, queueName string) error {
	if _, err := c.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		c.logger.Error("failed to declare queue",
			zap.String("queue", queueName),
			zap.Error(err))
		return err
	}

	if err := c.channel.QueueBind(
		queueName,
		routingKey,
		c.cfg.Exchange.Request,
		false,
		nil,
	); err != nil {
		c.logger.Error("failed to bind queue",
			zap.String("queue", queueName),
			zap.String("routing_key", routingKey),
			zap.Error(err))
		return err
	}

	return nil
}

// ListenForEvents consumes the queue and forwards decoded events to out
// until the context is cancelled. Malformed deliveries are logged and
// dropped, never fatal.
func (c *Consumer) ListenForEvents(ctx context.Context, queueName string, out chan<- entity.Event) error {
	deliveries, err := c.channel.Consume(
		queueName,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		c.logger.Error("failed to start consuming",
			zap.String("queue", queueName),
			zap.Error(err))
		return err
	}

	c.logger.Info("consuming events", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping consumer...")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", queueName)
			}

			var event entity.Event
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				c.logger.Error("error unmarshal delivery body", zap.Error(err))
				continue
			}

			if err := event.Validate(); err != nil {
				c.logger.Error("invalid event",
					zap.String("event_id", event.ID),
					zap.Error(err))
				continue
			}

			out <- event
		}
	}
}

func (c *Consumer) IsHealthy() bool {
	return !c.conn.IsClosed()
}

func (c *Consumer) Close() error {
	if err := c.channel.Close(); err != nil {
		c.logger.Error("error closing channel", zap.Error(err))
	}
	return c.conn.Close()
}
