// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package services

import (
	"context"
	"fmt"
)

// StartStopper is the lifecycle interface shared by the control plane's
// domain managers: internal/registry's offline scanner, internal/syncengine's
// group-timer engine, internal/schedule's evaluator, and internal/mood's
// collector/interpolation/broadcast engine.
//
// Satisfied by each package's top-level manager type:
//   - *registry.Registry.Start/Stop (heartbeat offline scan)
//   - *syncengine.Engine.Start/Stop (per-group timers)
//   - *schedule.Evaluator.Start/Stop (evaluation ticker)
//   - *mood.Engine.Start/Stop (collectors + interpolation + broadcast)
type StartStopper interface {
	Start(ctx context.Context) error
	Stop() error
}

// ManagedService wraps a StartStopper as a supervised service, adapting its
// Start/Stop lifecycle to suture's Serve pattern.
//
// Example usage:
//
//	svc := services.NewManagedService("schedule-evaluator", evaluator)
//	tree.AddMessagingService(svc)
type ManagedService struct {
	manager StartStopper
	name    string
}

// NewManagedService creates a new managed-service wrapper around manager,
// identified as name in logs and suture's service report.
func NewManagedService(name string, manager StartStopper) *ManagedService {
	return &ManagedService{manager: manager, name: name}
}

// Serve implements suture.Service.
//
// This method:
//  1. Starts the manager (which spawns its internal goroutines/timers)
//  2. Blocks until the context is canceled
//  3. Stops the manager (which waits for its goroutines to complete)
func (s *ManagedService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("%s stop failed: %w", s.name, err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *ManagedService) String() string {
	return s.name
}
