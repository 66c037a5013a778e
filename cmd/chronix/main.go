package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"chronix/config"
	_ "chronix/docs" // Swagger docs
	"chronix/internal/httpserver"
	"chronix/internal/middleware"
	"chronix/internal/shell"
	"chronix/internal/task"
	taskHTTP "chronix/internal/task/delivery/http"
	"chronix/pkg/log"
)

// @title       chronix API
// @description Tasks from Google Docs checklists, scheduled into your day.
// @version     1
// @host        localhost:8080
// @BasePath    /api/v1
// @schemes     http
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("chronix", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	configPath := flags.StringP("config", "c", "", "path to the config file (default "+config.DefaultPath()+")")
	verbose := flags.BoolP("verbose", "v", false, "log at debug level")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	args = flags.Args()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithTraceID(ctx, uuid.NewString())

	// 1. Configuration
	cfg, cfgErr := config.Load(*configPath)
	if cfgErr == nil {
		cfgErr = cfg.Validate()
	}

	// 2. Logger
	logCfg := log.ZapConfig{Level: "warn", Mode: log.ModeDevelopment, Encoding: log.EncodingConsole, ColorEnabled: true}
	if cfg != nil {
		logCfg = log.ZapConfig{
			Level:        cfg.Logger.Level,
			Mode:         cfg.Logger.Mode,
			Encoding:     cfg.Logger.Encoding,
			ColorEnabled: cfg.Logger.ColorEnabled,
		}
	}
	if *verbose {
		logCfg.Level = "debug"
	}
	logger := log.Init(logCfg)

	// 3. Task domain
	var (
		uc       task.UseCase
		setupErr = cfgErr
		loc      = time.Local
	)
	if cfgErr == nil {
		deps, err := newApp(ctx, logger, cfg)
		if err != nil {
			setupErr = err
		} else {
			uc, loc = deps.useCase, deps.location
		}
	}
	if setupErr != nil {
		setupErr = fmt.Errorf("configuration: %w", setupErr)
	}

	// 4. Serve
	if len(args) > 0 && args[0] == "serve" {
		if setupErr != nil {
			fmt.Fprintln(os.Stderr, "Error:", setupErr)
			return 1
		}
		if err := serve(ctx, logger, cfg, uc); err != nil {
			logger.Errorf(ctx, "Failed to run server: %v", err)
			return 1
		}
		return 0
	}

	// 5. Shell
	opts := shell.Options{
		UseCase:    uc,
		SetupErr:   setupErr,
		Config:     cfg,
		ConfigPath: *configPath,
		Location:   loc,
	}
	if len(args) > 0 {
		opts.In = os.Stdin
	}
	dispatcher := shell.NewDispatcher(opts)

	if len(args) == 0 {
		if err := shell.Run(ctx, dispatcher, setupErr == nil); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		return 0
	}

	if err := dispatcher.Run(ctx, os.Stdout, args); err != nil && !errors.Is(err, shell.ErrExit) {
		return 1
	}
	return 0
}

func serve(ctx context.Context, logger log.Logger, cfg *config.Config, uc task.UseCase) error {
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if out, err := uc.Sync(ctx, task.SyncInput{}); err != nil {
		logger.Warnf(ctx, "Initial sync failed: %v", err)
	} else {
		logger.Infof(ctx, "Initial sync: %d tasks in %d projects", out.Summary.Total, out.Summary.Projects)
	}

	srv, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		AllowedOrigins:  cfg.HTTPServer.AllowedOrigins,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
		TaskHandler:     taskHTTP.New(logger, uc),
		Middleware:      middleware.New(logger, cfg.HTTPServer.SyncRatePerMin),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Server stopped gracefully")
	return nil
}
