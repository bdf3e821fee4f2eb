// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/feedrank/internal/logging"
	"github.com/tomtom215/feedrank/internal/metrics"
	"github.com/tomtom215/feedrank/internal/models"
)

var (
	// ErrPublisherClosed is returned by publishes after Close.
	ErrPublisherClosed = errors.New("events: publisher is closed")

	// ErrBreakerOpen is returned while the publish circuit breaker rejects calls.
	ErrBreakerOpen = errors.New("events: circuit breaker open")

	// ErrNoSubscriber is returned by Subscribe on drivers without a local stream.
	ErrNoSubscriber = errors.New("events: driver has no local subscriber")
)

// Publisher publishes view events to one topic.
// It is safe for concurrent use.
type Publisher struct {
	pub     message.Publisher
	sub     message.Subscriber
	topic   string
	breaker *gobreaker.CircuitBreaker[interface{}]

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps a Watermill publisher. sub may be nil; breaker may be
// nil to publish unguarded.
func NewPublisher(pub message.Publisher, sub message.Subscriber, topic string, breaker *gobreaker.CircuitBreaker[interface{}]) *Publisher {
	return &Publisher{
		pub:     pub,
		sub:     sub,
		topic:   topic,
		breaker: breaker,
	}
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishView announces that ev was persisted at the given time.
func (p *Publisher) PublishView(ctx context.Context, ev models.ViewEvent, at time.Time) error {
	event := NewViewRecorded(ev, at)
	data, err := MarshalEvent(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("kind", string(ev.Kind))
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	msg.SetContext(ctx)

	err = p.Publish(msg)
	metrics.RecordEventPublish(p.topic, err)
	return err
}

// Publish sends a raw message with circuit breaker protection.
func (p *Publisher) Publish(msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	if p.breaker == nil {
		return p.pub.Publish(p.topic, msg)
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.pub.Publish(p.topic, msg)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerResult(p.breaker.Name(), "rejected")
		return ErrBreakerOpen
	case err != nil:
		metrics.RecordCircuitBreakerResult(p.breaker.Name(), "failure")
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	default:
		metrics.RecordCircuitBreakerResult(p.breaker.Name(), "success")
		return nil
	}
}

// Subscribe returns the local message stream for the topic. Only the
// gochannel driver supports it.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	if p.sub == nil {
		return nil, ErrNoSubscriber
	}
	return p.sub.Subscribe(ctx, p.topic)
}

// BreakerState reports the publish breaker state for health checks.
func (p *Publisher) BreakerState() string {
	if p.breaker == nil {
		return "disabled"
	}
	return p.breaker.State().String()
}

// Close shuts down the publisher. It is idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.pub.Close()
}

// newBreaker returns nil when failures is zero.
func newBreaker(name string, failures uint32, timeout time.Duration) *gobreaker.CircuitBreaker[interface{}] {
	if failures == 0 {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), float64(to))
		},
	})
}
