package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"post_syncer/internal/domain"
)

// RabbitMQ publishes a message per reconciled entity to a durable direct
// exchange bound to a single queue.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger = logger.With("component", Name)
	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

const (
	Name = "publisher"

	EventEntitySynced = "entity.synced"
)

// EntityMessage announces that a local entity mirrors a remote record.
type EntityMessage struct {
	Event      string    `json:"event"`
	EntityID   int64     `json:"entity_id"`
	SourceID   int64     `json:"source_id"`
	SourceURL  string    `json:"source_url"`
	TargetType string    `json:"target_type"`
	Title      string    `json:"title"`
	Modified   string    `json:"modified,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewEntityMessage(entityID int64, record *domain.RemoteRecord, hc domain.HookContext, now time.Time) EntityMessage {
	return EntityMessage{
		Event:      EventEntitySynced,
		EntityID:   entityID,
		SourceID:   record.ID,
		SourceURL:  hc.SourceURL,
		TargetType: hc.TargetType,
		Title:      record.Title.Rendered,
		Modified:   record.Modified.String(),
		Timestamp:  now.UTC(),
	}
}

// Handle implements extension.Handler.
func (r *RabbitMQ) Handle(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error {
	return r.Publish(ctx, NewEntityMessage(entityID, record, hc, time.Now()))
}

func (r *RabbitMQ) Publish(ctx context.Context, msg EntityMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         msg.Event,
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published entity",
		"entity_id", msg.EntityID,
		"source_id", msg.SourceID,
		"event", msg.Event,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
