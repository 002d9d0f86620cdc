package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/bantus/rental-backend/internal/config"
)

// Publisher sends an event to the named queue.  Handlers call it after the
// originating transaction has committed and ignore its error: a lost
// notification never fails the request.
type Publisher interface {
    Publish(ctx context.Context, queue string, event any) error
}

// NewPublisher returns an AMQP publisher, or a no-op one when the queue is
// disabled in configuration.
func NewPublisher(cfg config.QueueConfig, log *zap.Logger) Publisher {
    if !cfg.Enabled {
        return NopPublisher{}
    }
    return &AMQPPublisher{url: cfg.URL, log: log.Named("publisher")}
}

// AMQPPublisher dials the broker for every message.  Event volume is a few
// messages per landlord action, so a pooled connection is not worth its
// reconnect handling.
type AMQPPublisher struct {
    url string
    log *zap.Logger
}

// Publish declares the durable queue and publishes a persistent JSON
// message through the default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event any) error {
    msg, err := newPublishing(event, time.Now())
    if err != nil {
        p.log.Warn("marshal event failed", zap.String("queue", queue), zap.Error(err))
        return err
    }

    conn, err := amqp.Dial(p.url)
    if err != nil {
        p.log.Warn("dial failed", zap.String("queue", queue), zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("channel open failed", zap.String("queue", queue), zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        queue, // name
        true,  // durable
        false, // autoDelete
        false, // exclusive
        false, // noWait
        nil,   // args
    ); err != nil {
        p.log.Warn("queue declare failed", zap.String("queue", queue), zap.Error(err))
        return err
    }

    if err := ch.PublishWithContext(ctx,
        "",    // default exchange
        queue, // routing key = queue name
        false, // mandatory
        false, // immediate
        msg,
    ); err != nil {
        p.log.Warn("publish failed", zap.String("queue", queue), zap.Error(err))
        return err
    }
    p.log.Debug("event published", zap.String("queue", queue))
    return nil
}

func newPublishing(event any, now time.Time) (amqp.Publishing, error) {
    body, err := json.Marshal(event)
    if err != nil {
        return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
    }
    return amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    now.UTC(),
        Body:         body,
    }, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
