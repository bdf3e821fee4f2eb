// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/feedrank/internal/config"
	"github.com/tomtom215/feedrank/internal/logging"
)

// Supported drivers.
const (
	DriverGoChannel = "gochannel"
	DriverNATS      = "nats"
)

// streamMaxAge bounds how long view events stay in JetStream.
const streamMaxAge = 7 * 24 * time.Hour

// Open creates the publisher for the configured driver. natsURL overrides
// cfg.NATSURL, which lets an embedded server hand over its client URL.
func Open(ctx context.Context, cfg *config.EventsConfig, natsURL string) (*Publisher, error) {
	logger := NewLoggerAdapter(logging.WithComponent("events"))
	breaker := newBreaker("events", cfg.BreakerFailures, cfg.BreakerTimeout)

	switch cfg.Driver {
	case "", DriverGoChannel:
		gc := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
		return NewPublisher(gc, gc, cfg.Topic, breaker), nil

	case DriverNATS:
		if natsURL == "" {
			natsURL = cfg.NATSURL
		}
		if err := ensureStream(ctx, natsURL, cfg.Topic); err != nil {
			return nil, err
		}
		pub, err := newNATSPublisher(cfg, natsURL, logger)
		if err != nil {
			return nil, err
		}
		return NewPublisher(pub, nil, cfg.Topic, breaker), nil

	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

func newNATSPublisher(cfg *config.EventsConfig, url string, logger watermill.LoggerAdapter) (*wmNats.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// StreamName derives the JetStream stream name for a topic.
func StreamName(topic string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "*", "_", ">", "_").Replace(topic))
}

// ensureStream creates or updates the stream capturing topic.
func ensureStream(ctx context.Context, url, topic string) error {
	nc, err := natsgo.Connect(url, natsgo.Timeout(5*time.Second))
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	name := StreamName(topic)
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       name,
		Subjects:   []string{topic},
		Retention:  jetstream.LimitsPolicy,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
		MaxAge:     streamMaxAge,
		Duplicates: 2 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", name, err)
	}
	return nil
}
