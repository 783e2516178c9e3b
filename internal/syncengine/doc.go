// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package syncengine implements the Sync Engine: coordinated playback
// across the screens of one Sync Group so mirror/complementary/
// span groups appear to act as a single logical display, driven by a
// one-shot timer per playing group.
package syncengine
