// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

/*
Package cache provides thread-safe in-memory caching and counting
primitives: a TTL key-value Cache, an LRUCache with a size bound and a
dedicated IsDuplicate helper, and sliding-window counters for rate and
uniqueness tracking.

# Overview

The package depends on the standard library plus github.com/goccy/go-json
and is organized as a few
independent, composable pieces rather than one cache type:

  - Cache: simple TTL key-value store, lazy expiration on Get
  - LRUCache: bounded, TTL-backed, with IsDuplicate for one-shot
    "have I seen this key before" checks
  - SlidingWindowCounter / SlidingWindowStore: count events in a
    trailing time window
  - UniqueValueCounter / UniqueValueStore: count distinct values seen
    in a trailing time window

# Primary use case: event bus redelivery dedup

internal/eventbus.Relay holds an LRUCache keyed by Envelope.MessageID.
JetStream redelivers a message when a consumer crashes or errors
before Acking; IsDuplicate lets the relay recognize a redelivery and
skip fanning it out to screens a second time, without the relay
needing to track Ack state itself.

	seen := cache.NewLRUCache(4096, 5*time.Minute)
	if seen.IsDuplicate(env.MessageID) {
	    // already delivered; drop
	}

# Audio loudness windowing

internal/mood's Audio collector holds three SlidingWindowStores keyed by
locationID (sample count, spike count, and a scaled loudness sum) and
folds every raw AudioSample push into a 60-second rolling AudioReading
(mean loudness, spike frequency) instead of trusting the source to
pre-aggregate.

# Thread Safety

All types in this package are safe for concurrent use; Cache and
LRUCache use sync.RWMutex internally.

# See Also

  - internal/eventbus: the relay that exercises LRUCache.IsDuplicate
  - internal/mood: the Audio collector that exercises SlidingWindowStore
*/
package cache
