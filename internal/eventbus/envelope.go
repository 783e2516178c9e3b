// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package eventbus

import "time"

// Subject hierarchy for internal domain events. Each producer publishes on
// its own subtree; a Relay can subscribe to a wildcard to fan out several
// kinds at once.
const (
	SubjectSyncTick       = "cartograph.sync.tick"
	SubjectScheduleApplied = "cartograph.schedule.applied"
	SubjectScheduleCleared = "cartograph.schedule.cleared"
	SubjectMoodFrame       = "cartograph.mood.frame"
	SubjectAll             = "cartograph.>"
)

// Envelope is the generic message shape carried over the event bus. Kind
// identifies the producer-defined event type (e.g. "mood.frame"); Payload
// is the producer's domain struct, opaque to the bus itself. MessageID is
// the underlying watermill message UUID, carried through so a subscriber
// (Relay) can deduplicate a JetStream redelivery that lands after the
// original Ack was lost (consumer crash between delivery and Ack).
type Envelope struct {
	MessageID  string      `json:"messageId"`
	Kind       string      `json:"kind"`
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}
