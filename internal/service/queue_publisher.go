// Package service holds side effects that run after a request succeeds.
// Publishing errors are logged and returned so callers can ignore them
// without interrupting the main request flow.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/seatmap-studio/internal/queue"
)

// Publisher announces saved seat maps.
type Publisher interface {
    PublishSeatMapSaved(ctx context.Context, event q.SeatMapSavedEvent) error
}

// AMQPPublisher publishes to RabbitMQ, dialling per message.  Saves are rare
// enough that a pooled connection is not worth its reconnect handling.
type AMQPPublisher struct {
    URL string
}

// NewAMQPPublisher returns a publisher for url.  An empty url returns a
// publisher that drops every event.
func NewAMQPPublisher(url string) Publisher {
    if url == "" {
        return NopPublisher{}
    }
    return &AMQPPublisher{URL: url}
}

// PublishSeatMapSaved publishes a SeatMapSavedEvent to the "seatmap.saved"
// queue. Messages are marked as persistent.
func (p *AMQPPublisher) PublishSeatMapSaved(ctx context.Context, event q.SeatMapSavedEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.SeatMapSavedQueue, // name
        true,                // durable
        false,               // autoDelete
        false,               // exclusive
        false,               // noWait
        nil,                 // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",                  // default exchange
        q.SeatMapSavedQueue, // routing key = queue name
        false,               // mandatory
        false,               // immediate
        pub,
    ); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }

    return nil
}

// NopPublisher drops events.
type NopPublisher struct{}

// PublishSeatMapSaved does nothing.
func (NopPublisher) PublishSeatMapSaved(context.Context, q.SeatMapSavedEvent) error { return nil }
