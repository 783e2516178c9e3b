// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package screenbus implements the bidirectional event channel side of the
// Screen Registry & Push Bus: one gorilla/websocket connection per screen,
// registered under the screen's self-reported id, with a bounded
// per-screen outbound queue that drops the oldest message on overflow rather
// than blocking the dispatcher on a slow screen.
//
// screenbus is deliberately ignorant of tenants, targets, and persistence —
// internal/registry resolves a push target to a set of screen ids and calls
// Hub.Send/Hub.Fanout per id. internal/schedule pushes through the
// registry; internal/syncengine and internal/mood call Hub.Send/Hub.Fanout
// themselves with screen ids obtained from the registry. Inbound screen messages (player:register, player:heartbeat,
// player:ready, sync:ack, screenshot:response) are handed to an
// InboundHandler supplied at construction, implemented by internal/registry,
// keeping this package free of a dependency on it.
package screenbus
