// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/opensignage/cartograph/internal/api"
	"github.com/opensignage/cartograph/internal/config"
	"github.com/opensignage/cartograph/internal/database"
	"github.com/opensignage/cartograph/internal/eventbus"
	"github.com/opensignage/cartograph/internal/logging"
	"github.com/opensignage/cartograph/internal/metrics"
	"github.com/opensignage/cartograph/internal/mood"
	"github.com/opensignage/cartograph/internal/registry"
	"github.com/opensignage/cartograph/internal/schedule"
	"github.com/opensignage/cartograph/internal/screenbus"
	"github.com/opensignage/cartograph/internal/supervisor"
	"github.com/opensignage/cartograph/internal/supervisor/services"
	"github.com/opensignage/cartograph/internal/syncengine"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.SetAppInfo(version, runtime.Version())
	startTime := time.Now()
	go metrics.StartUptimeTracker(ctx, startTime, 15*time.Second)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("close database")
		}
	}()

	reg := registry.New(db, cfg.Registry)
	bus := screenbus.NewHub(cfg.Screenbus, reg)
	reg.AttachBus(bus)

	syncEngine := syncengine.New(reg, bus)
	sched := schedule.New(reg, cfg.Schedule)
	moodEngine := mood.New(reg, bus, cfg.Mood)
	eventBus := eventbus.New(cfg.NATS)
	relay := eventbus.NewRelay(eventBus, bus, eventbus.SubjectAll, "screenbus-relay")

	handler := api.NewHandler(cfg, db, reg, syncEngine, sched, moodEngine, bus, eventBus)
	chiMw := api.NewChiMiddlewareFromConfig(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMw)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewManagedService("screen-registry", reg))
	tree.AddMessagingService(services.NewManagedService("sync-engine", syncEngine))
	tree.AddMessagingService(services.NewManagedService("schedule-evaluator", sched))
	tree.AddMessagingService(services.NewManagedService("mood-engine", moodEngine))
	tree.AddMessagingService(services.NewWebSocketHubService(bus))
	if eventBus.Enabled() {
		tree.AddMessagingService(services.NewManagedService("eventbus", eventBus))
	}
	tree.AddMessagingService(services.NewManagedService("eventbus-relay", relay))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, 10*time.Second))

	logging.Info().
		Str("addr", httpServer.Addr).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("starting signage control plane")

	errCh := tree.ServeBackground(ctx)
	err = <-errCh
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("service did not stop within shutdown timeout")
		}
	}

	return nil
}
