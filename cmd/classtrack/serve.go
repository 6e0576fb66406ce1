// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/classtrack/classtrack/internal/auth"
	authpg "github.com/classtrack/classtrack/internal/auth/postgres"
	"github.com/classtrack/classtrack/internal/config"
	"github.com/classtrack/classtrack/internal/httpapi"
	"github.com/classtrack/classtrack/internal/logging"
	"github.com/classtrack/classtrack/internal/observability"
	"github.com/classtrack/classtrack/internal/store"
	"github.com/classtrack/classtrack/internal/tracker"
	trackerpg "github.com/classtrack/classtrack/internal/tracker/postgres"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Classtrack API server",
		Long: `Start the HTTP API server along with the observability
endpoints. Configuration comes from defaults, the optional config file,
and command-line flags, in that order of precedence.`,
		RunE: runServe,
	}
	cmd.Flags().AddFlagSet(config.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("classtrack", version, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()

	tokens, err := auth.NewTokenIssuer([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	users := authpg.NewUserRepository(pool)
	classrooms := trackerpg.NewClassroomRepository(pool)
	progress := trackerpg.NewProgressRepository(pool)
	transactor := trackerpg.NewTransactor(pool)
	policy := tracker.NewPolicy()

	authSvc := auth.NewService(users, auth.NewArgon2idHasher(), tokens)
	classroomSvc := tracker.NewClassroomService(tracker.ClassroomServiceConfig{
		Classrooms: classrooms,
		Users:      users,
		Transactor: transactor,
		Policy:     policy,
	})
	progressSvc := tracker.NewProgressService(tracker.ProgressServiceConfig{
		Progress:   progress,
		Classrooms: classrooms,
		Policy:     policy,
	})

	var ready atomic.Bool

	var obs *observability.Server
	var obsErrCh <-chan error
	var metrics *observability.Metrics
	if cfg.Server.MetricsAddr != "" {
		obs = observability.NewServer(cfg.Server.MetricsAddr, ready.Load)
		obsErrCh, err = obs.Start()
		if err != nil {
			return err
		}
		metrics = obs.Metrics()
	}

	api := httpapi.NewServer(httpapi.ServerConfig{
		Addr:        cfg.Server.Addr,
		CORSOrigins: cfg.Server.CORSOrigins,
		Auth:        authSvc,
		Resolver:    authSvc,
		Classrooms:  classroomSvc,
		Progress:    progressSvc,
		Metrics:     metrics,
	})
	apiErrCh, err := api.Start()
	if err != nil {
		stopObservability(obs)
		return err
	}

	ready.Store(true)

	select {
	case <-ctx.Done():
	case serveErr := <-apiErrCh:
		if serveErr != nil {
			err = serveErr
		}
	case obsErr := <-obsErrCh:
		if obsErr != nil {
			err = obsErr
		}
	}

	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopErr := api.Stop(shutdownCtx); stopErr != nil && err == nil {
		err = stopErr
	}
	if obs != nil {
		if stopErr := obs.Stop(shutdownCtx); stopErr != nil && err == nil {
			err = stopErr
		}
	}
	return err
}

func stopObservability(obs *observability.Server) {
	if obs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = obs.Stop(ctx)
}
