// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package registry

import (
	"context"
	"time"

	"github.com/opensignage/cartograph/internal/apperrors"
	"github.com/opensignage/cartograph/internal/models"
	"github.com/opensignage/cartograph/internal/screenbus"
)

// PushResult reports how many screens a push/command operation matched
// versus how many were actually connected to receive it.
type PushResult struct {
	Matched    int
	Dispatched int
}

// Push resolves target and fans env out as a content frame. Matched counts
// every screen the target resolved to (already connectivity-filtered by
// ResolveTarget); Dispatched counts those the Hub actually enqueued the
// frame for.
func (r *Registry) Push(ctx context.Context, clientID, target string, env models.Envelope) (PushResult, error) {
	if !validEnvelopeType[env.Type] {
		return PushResult{}, apperrors.InvalidInputf("unknown envelope type: " + env.Type)
	}
	if env.Timestamp == 0 {
		env.Timestamp = time.Now().UnixMilli()
	}
	ids, err := r.ResolveTarget(ctx, clientID, target)
	if err != nil {
		return PushResult{}, err
	}
	if r.bus == nil {
		return PushResult{Matched: len(ids)}, nil
	}
	dispatched := r.bus.Fanout(ids, screenbus.ServerMessage{Type: screenbus.ServerMsgContent, Data: env})
	return PushResult{Matched: len(ids), Dispatched: dispatched}, nil
}

var validEnvelopeType = map[string]bool{
	models.EnvelopeTypeURL:      true,
	models.EnvelopeTypeMedia:    true,
	models.EnvelopeTypeWidget:   true,
	models.EnvelopeTypePlaylist: true,
	models.EnvelopeTypeAlert:    true,
	models.EnvelopeTypeClear:    true,
	models.EnvelopeTypeMode:     true,
	models.EnvelopeTypeReload:   true,
}

// Reload resolves target and sends a command:reload frame, used by both the
// per-target push API and /api/reload-all (target="all").
func (r *Registry) Reload(ctx context.Context, clientID, target string) (PushResult, error) {
	return r.command(ctx, clientID, target, screenbus.ServerMsgCommandReload, nil)
}

// Clear resolves target and sends a command:clear frame.
func (r *Registry) Clear(ctx context.Context, clientID, target string) (PushResult, error) {
	return r.command(ctx, clientID, target, screenbus.ServerMsgCommandClear, nil)
}

// Identify resolves target and sends a command:identify frame, which tells
// matching screens to show their id/name overlay briefly.
func (r *Registry) Identify(ctx context.Context, clientID, target string) (PushResult, error) {
	return r.command(ctx, clientID, target, screenbus.ServerMsgCommandID, nil)
}

// CaptureScreenshot resolves target and sends a command:screenshot frame.
// The resulting image arrives asynchronously via a screenshot:response
// frame handled by HandleScreenshot and is retrieved with LastScreenshot.
func (r *Registry) CaptureScreenshot(ctx context.Context, clientID, target string) (PushResult, error) {
	return r.command(ctx, clientID, target, screenbus.ServerMsgCommandShot, nil)
}

func (r *Registry) command(ctx context.Context, clientID, target, msgType string, data interface{}) (PushResult, error) {
	ids, err := r.ResolveTarget(ctx, clientID, target)
	if err != nil {
		return PushResult{}, err
	}
	if r.bus == nil {
		return PushResult{Matched: len(ids)}, nil
	}
	dispatched := r.bus.Fanout(ids, screenbus.ServerMessage{Type: msgType, Data: data})
	return PushResult{Matched: len(ids), Dispatched: dispatched}, nil
}
