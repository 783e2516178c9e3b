// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package schedule implements the Schedule Evaluator: a fixed 60-second
// tick, plus a 5-second debounce re-run on every schedule
// mutation, that picks the highest-priority matching schedule for each
// distinct screenTarget and pushes (or clears) its playlist.
package schedule
