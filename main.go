package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget-planner/internal/config"
	"budget-planner/internal/database"
	"budget-planner/internal/logging"
	"budget-planner/internal/router"
	"budget-planner/internal/scheduler"
	"budget-planner/internal/service"
	"budget-planner/internal/util"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "budget-planner: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	// debug runs without a configured secret get a throwaway one;
	// tokens stop working on restart
	if cfg.JWT.Secret == "" && cfg.Server.Mode == "debug" {
		if cfg.JWT.Secret, err = util.RandomString(48); err != nil {
			return err
		}
		logger.Warn("jwt.secret not set, using a random secret for this run")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("close database", logging.Err(err))
		}
	}()

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// background jobs
	sched := scheduler.New(time.UTC, logger)
	if cfg.Scheduler.SessionCleanup != "" {
		sessions := service.NewSessionService(db, cfg.TokenTTL())
		_, err := sched.Every(cfg.Scheduler.SessionCleanup, "session-cleanup", func(ctx context.Context) error {
			n, err := sessions.PurgeExpired(ctx)
			if err == nil && n > 0 {
				logger.Info("purged sessions", "count", n)
			}
			return err
		})
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           router.SetupRouter(cfg, db, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
