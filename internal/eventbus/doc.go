// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package eventbus provides a thin Watermill-over-NATS-JetStream wrapper
// that decouples the control plane's internal producers (the Sync Engine's
// group ticks, the Schedule Evaluator's apply/clear decisions, and the
// Context/Mood Engine's broadcast frames) from the Push Bus's websocket
// fanout. Producers publish generic Envelopes onto subject-hierarchy
// topics; a Relay subscribes and republishes them to connected screens via
// screenbus, so a screen-facing broadcast never has to know whether its
// source ran in this process or another one sharing the same NATS stream.
package eventbus
