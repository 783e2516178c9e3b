// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package eventbus

import (
	"context"
	"fmt"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
)

// embeddedServer wraps a self-contained NATS JetStream server for
// single-process deployments that don't want to stand up an external NATS
// cluster.
type embeddedServer struct {
	server *natsserver.Server
	url    string
}

func startEmbeddedServer(storeDir string, maxMemory, maxStore int64) (*embeddedServer, error) {
	opts := &natsserver.Options{
		ServerName:         "cartograph-eventbus",
		Host:               "127.0.0.1",
		Port:               -1, // random free port; clients dial via ClientURL()
		JetStream:          true,
		StoreDir:           storeDir,
		JetStreamMaxMemory: maxMemory,
		JetStreamMaxStore:  maxStore,
		DontListen:         false,
		NoLog:              false,
		MaxPayload:         4 * 1024 * 1024,
	}

	ns, err := natsserver.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create embedded NATS server: %w", err)
	}
	ns.ConfigureLogger()

	go ns.Start()
	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server not ready within timeout")
	}

	return &embeddedServer{server: ns, url: ns.ClientURL()}, nil
}

func (e *embeddedServer) ClientURL() string { return e.url }

func (e *embeddedServer) Shutdown(ctx context.Context) {
	if e == nil || e.server == nil {
		return
	}
	e.server.Shutdown()
	done := make(chan struct{})
	go func() {
		e.server.WaitForShutdown()
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
}
