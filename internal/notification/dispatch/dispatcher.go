// Package dispatch drains pending notification events to Kafka. Delivery is
// at-least-once: an event is marked SENT only after the broker acknowledges
// the produce, so a crash between produce and mark replays the event.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"filingcontrol/internal/notification"
)

const (
	// DefaultTopic is the Kafka topic deadline notifications are produced to.
	DefaultTopic = "filingcontrol.deadline-events"

	defaultBatchSize   = 100
	defaultConcurrency = 8
)

// Producer is the slice of the Kafka client the dispatcher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Dispatcher drains pending events from the store to a Kafka topic.
type Dispatcher struct {
	events      notification.Store
	producer    Producer
	logger      *slog.Logger
	topic       string
	batchSize   int
	concurrency int
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithTopic overrides the destination topic.
func WithTopic(topic string) Option {
	return func(d *Dispatcher) {
		d.topic = topic
	}
}

// WithBatchSize caps how many pending events one Drain call picks up.
func WithBatchSize(n int) Option {
	return func(d *Dispatcher) {
		d.batchSize = n
	}
}

// New creates a dispatcher draining events through the given producer.
func New(events notification.Store, producer Producer, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		events:      events,
		producer:    producer,
		logger:      logger,
		topic:       DefaultTopic,
		batchSize:   defaultBatchSize,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// payload is the wire format of a produced deadline event.
type payload struct {
	EventID       string `json:"eventId"`
	EntityID      string `json:"entityId"`
	ObligationKey string `json:"obligationKey"`
	Form          string `json:"form"`
	EventType     string `json:"eventType"`
	DueDate       string `json:"dueDate"`
	CreatedAt     string `json:"createdAt"`
}

// Drain produces one batch of pending events and marks each SENT after its
// produce is acknowledged. It returns the number of events delivered; a
// per-event failure fails the batch but already-acknowledged events stay
// SENT.
func (d *Dispatcher) Drain(ctx context.Context) (int, error) {
	pending, err := d.events.ListPending(ctx, d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending events: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, event := range pending {
		g.Go(func() error {
			return d.deliver(ctx, event)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	d.logger.InfoContext(ctx, "notification batch dispatched",
		"topic", d.topic,
		"count", len(pending),
	)
	return len(pending), nil
}

// Run drains pending events on an interval until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.Drain(ctx); err != nil {
				d.logger.ErrorContext(ctx, "notification dispatch failed",
					"error", err,
				)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event *notification.Event) error {
	value, err := json.Marshal(payload{
		EventID:       event.ID.String(),
		EntityID:      event.EntityID.String(),
		ObligationKey: event.ObligationKey,
		Form:          event.Form,
		EventType:     string(event.EventType),
		DueDate:       event.DueDate.String(),
		CreatedAt:     event.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	record := &kgo.Record{
		Topic: d.topic,
		// Key by entity so one entity's events stay ordered per partition.
		Key:   []byte(event.EntityID.String()),
		Value: value,
	}
	if err := d.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %s: %w", event.ID, err)
	}

	if err := d.events.UpdateStatus(ctx, event.ID, notification.StatusPending, notification.StatusSent); err != nil {
		return fmt.Errorf("mark event %s sent: %w", event.ID, err)
	}
	return nil
}
