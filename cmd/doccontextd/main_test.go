package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doccontext/internal/common"
	repo "github.com/joseph-ayodele/doccontext/internal/repository"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	cfg := common.LoadConfig()
	cfg.Database.Driver = repo.DriverSQLite
	cfg.Database.DSN = filepath.Join(t.TempDir(), "doccontext.db")
	cfg.Server.HTTPAddr = "127.0.0.1:0"
	cfg.Server.GRPCAddr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Remote.URL = ""
	cfg.Ingest.Dir = ""
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunMissingInboxReturnsError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ingest.Dir = filepath.Join(t.TempDir(), "does-not-exist")
	// Occupied gRPC port: run must fail on the inbox before it gets that far.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	cfg.Server.GRPCAddr = lis.Addr().String()

	err = run(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), "inbox watcher")
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ingest.Dir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, quietLogger()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	// The database file is left in a usable state.
	db, err := repo.Open(context.Background(), repo.Config{Driver: repo.DriverSQLite, DSN: cfg.Database.DSN}, quietLogger())
	require.NoError(t, err)
	db.Close(quietLogger())
}
