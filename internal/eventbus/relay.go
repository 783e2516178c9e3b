// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package eventbus

import (
	"context"
	"time"

	"github.com/opensignage/cartograph/internal/cache"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// Subscriber is the slice of *Bus that Relay depends on, letting tests
// substitute a mock rather than dial a real NATS server.
type Subscriber interface {
	Enabled() bool
	Subscribe(ctx context.Context, subject, durableSuffix string) (<-chan Envelope, error)
}

// Relay bridges the event bus to the Push Bus: it subscribes to a subject
// pattern and fans each received Envelope out to every connected screen as
// a screenbus.ServerMessage, using the Envelope's Kind as the message Type.
// This is what lets a screen receive a sync tick, schedule change, or mood
// frame whose producer ran in a different process sharing the same NATS
// stream.
type Relay struct {
	bus     Subscriber
	hub     *screenbus.Hub
	subject string
	suffix  string

	// seen deduplicates a redelivered message (JetStream redelivers when an
	// Ack is lost, e.g. the relay crashes between fanout and Ack) so a
	// screen never receives the same frame twice.
	seen *cache.LRUCache

	stop chan struct{}
	done chan struct{}
}

// NewRelay constructs a Relay that will forward subject (a literal subject
// or wildcard like eventbus.SubjectAll) to hub. suffix distinguishes this
// relay's durable consumer from any other subscriber of the same subject.
func NewRelay(bus Subscriber, hub *screenbus.Hub, subject, suffix string) *Relay {
	return &Relay{
		bus:     bus,
		hub:     hub,
		subject: subject,
		suffix:  suffix,
		seen:    cache.NewLRUCache(4096, 5*time.Minute),
	}
}

// Start satisfies services.StartStopper. A disabled Bus makes Start a no-op
// so the relay never blocks server startup on an absent NATS deployment.
func (r *Relay) Start(ctx context.Context) error {
	if !r.bus.Enabled() {
		return nil
	}
	envs, err := r.bus.Subscribe(ctx, r.subject, r.suffix)
	if err != nil {
		return err
	}

	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.run(ctx, envs)
	return nil
}

// Stop satisfies services.StartStopper.
func (r *Relay) Stop() error {
	if r.stop != nil {
		close(r.stop)
		<-r.done
	}
	return nil
}

func (r *Relay) run(ctx context.Context, envs <-chan Envelope) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case env, ok := <-envs:
			if !ok {
				return
			}
			if env.MessageID != "" && r.seen.IsDuplicate(env.MessageID) {
				logging.Debug().Str("message_id", env.MessageID).Msg("dropped duplicate event bus envelope")
				continue
			}
			ids := r.hub.ConnectedScreens()
			if len(ids) == 0 {
				continue
			}
			dispatched := r.hub.Fanout(ids, screenbus.ServerMessage{Type: env.Kind, Data: env.Payload})
			logging.Debug().Str("subject", env.Subject).Int("dispatched", dispatched).Msg("relayed event bus envelope to screens")
		}
	}
}
