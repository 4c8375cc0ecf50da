// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type Type string

const (
	PhotoCreated Type = "photo.created"
	PhotoDeleted Type = "photo.deleted"
	AlbumShared  Type = "album.shared"
	ClaimDecided Type = "claim.decided"
)

// Event is a thing happened in photoshare.
type Event struct {
	Type Type `json:"type"`

	// id of the record the event is about.
	Subject int64 `json:"subject"`

	// id of the user who caused the event. nil for system events.
	Actor *int64 `json:"actor,omitempty"`

	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Writer is the subset of *kafka.Writer used by this package.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer Writer
}

// NewKafka returns Publisher writing to the topic.
func NewKafka(brokers []string, topic string) Publisher {
	return WithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	})
}

// WithWriter returns Publisher over the writer.
func WithWriter(w Writer) Publisher {
	return &kafkaPublisher{writer: w}
}

func (p *kafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// events about the same record go to the same partition.
	key := string(ev.Type) + ":" + strconv.FormatInt(ev.Subject, 10)
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	}); err != nil {
		return fmt.Errorf("failed to write event to kafka: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noop struct{}

// Noop returns Publisher discarding events.
func Noop() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, Event) error {
	return nil
}

func (noop) Close() error {
	return nil
}
