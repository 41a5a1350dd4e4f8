package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/playmat/internal/config"
	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/editor"
	"github.com/rpggio/playmat/internal/mcp"
	"github.com/rpggio/playmat/internal/raster"
	"github.com/rpggio/playmat/internal/sqlite"
	"github.com/rpggio/playmat/internal/transport"
)

const shutdownTimeout = 5 * time.Second

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if mode := cmd.String("transport"); mode != "" {
		cfg.Transport.Mode = mode
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	stdio := cfg.Transport.Mode == config.TransportStdio

	logger, closeLog, err := newLogger(cfg.Log.Level, cfg.Log.Path, stdio)
	if err != nil {
		return fmt.Errorf("log file error: %w", err)
	}
	defer closeLog()

	if err := ensureParentDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	session, err := editor.Open(ctx, editor.Options{
		Store:        sqlite.NewProjectStore(db),
		Journal:      activitySvc,
		Logger:       logger,
		SaveDebounce: cfg.Editor.SaveDebounce,
		HistoryLimit: cfg.Editor.HistoryLimit,
	})
	if err != nil {
		return fmt.Errorf("opening editor session: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := session.Close(closeCtx); err != nil {
			logger.Error("final save failed", "error", err)
		}
	}()
	unsubscribe := session.Subscribe(func(ev editor.Event) {
		logger.Debug("editor change", "kind", ev.Kind, "summary", ev.Summary, "settled", ev.Settled)
	})
	defer unsubscribe()

	canvas := raster.NewCanvas(session, raster.NewLoader(nil, raster.WithFileRoot(cfg.Assets.Dir)),
		raster.WithLogger(logger),
		raster.WithBackgroundReporter(func(w, h float64) {
			if _, err := session.ReportBackgroundImage(w, h); err != nil {
				logger.Warn("background fit failed", "error", err)
			}
		}),
	)
	handler := mcp.NewHandler(session, canvas, activitySvc, cfg.Export.Dir)
	mcpServer := mcp.NewServer(mcp.Config{Handler: handler, Version: version, Logger: logger})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if stdio {
		return runStdio(ctx, logger, mcpServer)
	}
	return runHTTP(ctx, logger, cfg.Server.Address(), transport.NewServer(transport.Options{
		Handler: handler,
		Preview: canvas,
		MCP:     newMCPHandler(mcpServer),
		Logger:  logger,
	}))
}

func newMCPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
}

func runStdio(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")
	// Run blocks until stdin closes or ctx is cancelled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		return nil
	})

	return g.Wait()
}
