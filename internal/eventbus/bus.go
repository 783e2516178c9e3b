// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/metrics"
)

const streamName = "CARTOGRAPH_EVENTS"

// Bus is a thin Watermill-over-NATS-JetStream wrapper: Publish marshals a
// domain payload into an Envelope and sends it on a subject; Subscribe
// returns a channel of decoded Envelopes for a subject pattern. Embedding
// (config.NATSConfig.EmbeddedServer) runs a self-contained JetStream
// instance; otherwise Bus dials cfg.URL.
//
// Bus satisfies services.StartStopper so it can be wrapped with
// services.NewManagedService alongside the registry/syncengine/schedule/
// mood managers.
type Bus struct {
	cfg config.NATSConfig

	mu        sync.Mutex
	embedded  *embeddedServer
	conn      *natsgo.Conn
	publisher message.Publisher
	running   bool
}

// New constructs a Bus from NATS configuration. Connection/stream setup is
// deferred to Start so construction never fails or blocks.
func New(cfg config.NATSConfig) *Bus {
	return &Bus{cfg: cfg}
}

// Start connects to NATS (starting an embedded server first if configured),
// ensures the event stream exists, and readies the shared publisher used by
// Publish. Returns immediately (no-op) if NATS is disabled.
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.cfg.Enabled || b.running {
		return nil
	}

	url := b.cfg.URL
	if b.cfg.EmbeddedServer {
		es, err := startEmbeddedServer(b.cfg.StoreDir, b.cfg.MaxMemory, b.cfg.MaxStore)
		if err != nil {
			return err
		}
		b.embedded = es
		url = es.ClientURL()
		logging.Info().Str("url", url).Msg("embedded NATS event bus started")
	}

	nc, err := natsgo.Connect(url,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		b.shutdownLocked(context.Background())
		return fmt.Errorf("connect to NATS event bus: %w", err)
	}
	b.conn = nc

	if err := ensureStream(nc, b.cfg.RetentionDays); err != nil {
		b.shutdownLocked(context.Background())
		return err
	}

	logger := watermill.NewStdLogger(false, false)
	pub, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:       url,
		Marshaler: &wmnats.NATSMarshaler{},
		JetStream: wmnats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			TrackMsgId:    true,
		},
	}, logger)
	if err != nil {
		b.shutdownLocked(context.Background())
		return fmt.Errorf("create event bus publisher: %w", err)
	}
	b.publisher = pub
	b.running = true
	return nil
}

// Stop closes the publisher, NATS connection, and embedded server (if any).
func (b *Bus) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return nil
	}
	b.running = false
	b.shutdownLocked(context.Background())
	return nil
}

func (b *Bus) shutdownLocked(ctx context.Context) {
	if b.publisher != nil {
		_ = b.publisher.Close()
		b.publisher = nil
	}
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	if b.embedded != nil {
		b.embedded.Shutdown(ctx)
		b.embedded = nil
	}
}

// Enabled reports whether this Bus was configured on (config.NATSConfig.Enabled).
// Callers (e.g. cmd/server wiring) use this to skip supervising a disabled bus.
func (b *Bus) Enabled() bool { return b.cfg.Enabled }

// Publish wraps payload in an Envelope and sends it on subject. A no-op
// (returns nil) when the bus is disabled, so producers never need their own
// enabled/disabled branch.
func (b *Bus) Publish(ctx context.Context, subject, kind string, payload interface{}) error {
	b.mu.Lock()
	pub := b.publisher
	b.mu.Unlock()
	if pub == nil {
		return nil
	}

	msgID := watermill.NewUUID()
	env := Envelope{MessageID: msgID, Kind: kind, Subject: subject, OccurredAt: time.Now(), Payload: payload}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := message.NewMessage(msgID, data)
	if err := pub.Publish(subject, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	metrics.RecordNATSPublish()
	return nil
}

// Subscribe opens a durable JetStream subscription on subject and returns a
// channel of decoded Envelopes. The channel closes when ctx is canceled.
// durableSuffix distinguishes independent consumers of the same subject
// (e.g. one per screenbus Relay instance).
func (b *Bus) Subscribe(ctx context.Context, subject, durableSuffix string) (<-chan Envelope, error) {
	b.mu.Lock()
	url := b.cfg.URL
	if b.embedded != nil {
		url = b.embedded.ClientURL()
	}
	durable := b.cfg.DurableName
	queue := b.cfg.QueueGroup
	subCount := b.cfg.SubscribersCount
	b.mu.Unlock()

	if durable == "" {
		durable = "cartograph-eventbus"
	}
	if subCount <= 0 {
		subCount = 1
	}

	logger := watermill.NewStdLogger(false, false)
	sub, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: queue,
		SubscribersCount: subCount,
		AckWaitTimeout:   30 * time.Second,
		Unmarshaler:      &wmnats.NATSMarshaler{},
		JetStream: wmnats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			DurablePrefix: durable + "-" + durableSuffix,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(streamName),
				natsgo.DeliverNew(),
				natsgo.MaxDeliver(3),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create event bus subscriber: %w", err)
	}

	raw, err := sub.Subscribe(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", subject, err)
	}

	out := make(chan Envelope)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-raw:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal(msg.Payload, &env); err != nil {
					logging.Warn().Err(err).Msg("failed to unmarshal event bus envelope")
					msg.Nack()
					continue
				}
				metrics.RecordNATSConsume()
				select {
				case out <- env:
					msg.Ack()
				case <-ctx.Done():
					msg.Nack()
					return
				}
			}
		}
	}()
	return out, nil
}

func ensureStream(nc *natsgo.Conn, retentionDays int) error {
	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	if retentionDays <= 0 {
		retentionDays = 7
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"cartograph.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    time.Duration(retentionDays) * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
		Discard:   jetstream.DiscardOld,
	}

	if _, err := js.Stream(ctx, streamName); err == nil {
		if _, err := js.UpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("update event bus stream: %w", err)
		}
		return nil
	}
	if _, err := js.CreateStream(ctx, cfg); err != nil {
		return fmt.Errorf("create event bus stream: %w", err)
	}
	return nil
}
