// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

// Package mood implements the Context/Mood Engine: a set of
// signal collectors feeding a per-location Signals Cache, a processor that
// folds those signals into a target Mood Vector, a 500ms interpolation
// loop that eases the current vector toward the target, and a 2s
// broadcast loop that fans the result out to every connected screen at
// that location.
package mood
