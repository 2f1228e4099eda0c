package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/content"
	"github.com/joseph-ayodele/doccontext/internal/remote"
)

func main() {
	var (
		path      = flag.String("file", "", "document to extract")
		remoteURL = flag.String("remote", "", "remote processor URL (defaults to REMOTE_URL)")
		asJSON    = flag.Bool("json", false, "print method, format and text as JSON")
		verbose   = flag.Bool("v", false, "log strategy outcomes to stderr")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *path == "" {
		logger.Error("usage: extract -file <path> [-remote url] [-json]")
		os.Exit(2)
	}
	if err := common.LoadDotEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}
	cfg := common.LoadConfig()
	if *remoteURL != "" {
		cfg.Remote.URL = *remoteURL
	}

	var opts []content.Option
	if cfg.Remote.URL != "" {
		opts = append(opts, content.WithRemote(remote.NewClient(remote.Config{
			URL:     cfg.Remote.URL,
			Timeout: cfg.Remote.Timeout,
		}, logger)))
	}
	svc := content.NewService(logger, opts...)

	ctx, cancel := common.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ex := svc.Resolve(ctx, content.FromPath(*path))
	if *asJSON {
		out := map[string]any{
			"file":        *path,
			"format":      ex.Format,
			"method":      ex.Method,
			"placeholder": ex.Placeholder,
			"length":      len(ex.Text),
			"text":        ex.Text,
		}
		if ex.Err != nil {
			out["error"] = ex.Err.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.Error("encode output", "error", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(ex.Text)
	}
	if ex.Placeholder {
		os.Exit(1)
	}
}
