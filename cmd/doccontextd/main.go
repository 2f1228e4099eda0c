package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/doccontext/internal/async"
	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/content"
	"github.com/joseph-ayodele/doccontext/internal/export"
	"github.com/joseph-ayodele/doccontext/internal/ingest"
	"github.com/joseph-ayodele/doccontext/internal/pipeline"
	"github.com/joseph-ayodele/doccontext/internal/remote"
	repo "github.com/joseph-ayodele/doccontext/internal/repository"
	"github.com/joseph-ayodele/doccontext/internal/server"
	"github.com/joseph-ayodele/doccontext/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := common.LoadDotEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("doccontextd failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("doccontextd stopped")
}

// run serves until ctx ends. Everything it opens is released before it returns.
func run(ctx context.Context, cfg *common.Config, logger *slog.Logger) error {
	db, err := repo.Open(ctx, repo.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("open database (%s): %w", cfg.Database.Driver, err)
	}
	defer db.Close(logger)

	if err := db.HealthCheck(ctx, 5*time.Second); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	docsRepo := repo.NewDocumentRepository(db, logger)
	jobsRepo := repo.NewExtractJobRepository(db, logger)

	contentOpts := []content.Option{content.WithWordDocuments()}
	if cfg.Remote.URL != "" {
		contentOpts = append(contentOpts, content.WithRemote(remote.NewClient(remote.Config{
			URL:     cfg.Remote.URL,
			Timeout: cfg.Remote.Timeout,
		}, logger)))
		logger.Info("remote processor enabled", "url", cfg.Remote.URL)
	}
	contentSvc := content.NewService(logger, contentOpts...)
	pipe := pipeline.NewPipeline(docsRepo, jobsRepo, contentSvc, logger)

	g, gctx := errgroup.WithContext(ctx)

	// The watcher goes first so a bad inbox fails before anything listens.
	var (
		paths <-chan string
		errs  <-chan error
	)
	if cfg.Ingest.Dir != "" {
		paths, errs, err = ingest.StartWatcher(gctx, ingest.WatchConfig{
			Roots:       []string{cfg.Ingest.Dir},
			InitialScan: true,
			Debounce:    cfg.Ingest.Debounce,
			SkipHidden:  true,
		}, logger)
		if err != nil {
			return fmt.Errorf("start inbox watcher on %s: %w", cfg.Ingest.Dir, err)
		}
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.GRPCAddr, err)
	}

	httpServer := server.NewServer(contentSvc, pipe, docsRepo, session.NewStore(), logger,
		server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		server.WithExporter(export.NewService(docsRepo, logger)),
	)
	healthServer := server.NewHealthServer(logger)

	g.Go(func() error { return httpServer.Start(gctx, cfg.Server.HTTPAddr, cfg.Server.ShutdownTimeout) })
	g.Go(func() error { return healthServer.Serve(gctx, lis) })

	var queue *async.ProcessorQueue
	if paths != nil {
		queue = async.NewProcessorQueue(pipe, logger,
			async.WithWorkers(cfg.Ingest.Workers),
			async.WithQueueSize(cfg.Ingest.QueueSize),
			async.WithProcessTimeout(cfg.Ingest.JobTimeout),
		)
		g.Go(func() error {
			ingest.Forward(gctx, paths, queue, logger)
			return nil
		})
		g.Go(func() error {
			for err := range errs {
				logger.Warn("inbox watcher error", "error", err)
			}
			return nil
		})
		logger.Info("watching inbox", "dir", cfg.Ingest.Dir)
	}

	err = g.Wait()

	if queue != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		queue.Shutdown(shutdownCtx)
		cancel()
	}
	return err
}
