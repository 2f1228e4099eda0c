package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doccontext/internal/async"
)

type fakeQueue struct {
	mu   sync.Mutex
	jobs []async.Job
	err  error
}

func (f *fakeQueue) Enqueue(_ context.Context, job async.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, filepath.Base(j.Path))
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

func TestAllowedExt(t *testing.T) {
	require.True(t, AllowedExt(".PDF"))
	require.True(t, AllowedExt("xlsx"))
	require.False(t, AllowedExt(".exe"))
	require.True(t, IsHidden("/a/.env"))
	require.False(t, IsHidden("/a/b.txt"))
}

func TestEnqueueDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"))
	writeFile(t, filepath.Join(root, "nested", "b.txt"))
	writeFile(t, filepath.Join(root, "skip.exe"))
	writeFile(t, filepath.Join(root, ".hidden", "c.pdf"))
	writeFile(t, filepath.Join(root, ".d.md"))

	q := &fakeQueue{}
	stats, err := EnqueueDirectory(context.Background(), q, root, true, quietLogger())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.pdf", "b.txt"}, q.paths())
	require.Equal(t, uint32(2), stats.Matched)
	require.Equal(t, uint32(2), stats.Queued)

	q = &fakeQueue{}
	_, err = EnqueueDirectory(context.Background(), q, root, false, quietLogger())
	require.NoError(t, err)
	require.Len(t, q.paths(), 4)

	_, err = EnqueueDirectory(context.Background(), &fakeQueue{err: async.ErrQueueClosed}, root, true, quietLogger())
	require.ErrorIs(t, err, async.ErrQueueClosed)

	_, err = EnqueueDirectory(context.Background(), q, " ", true, quietLogger())
	require.Error(t, err)
}

func TestWatcherEmitsNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	paths, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
		SkipHidden:  true,
	}, quietLogger())
	require.NoError(t, err)

	q := &fakeQueue{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		Forward(ctx, paths, q, quietLogger())
	}()

	writeFile(t, filepath.Join(root, "new.txt"))
	writeFile(t, filepath.Join(root, "ignored.exe"))

	require.Eventually(t, func() bool {
		got := q.paths()
		return len(got) >= 2
	}, 3*time.Second, 10*time.Millisecond)
	require.Contains(t, q.paths(), "existing.pdf")
	require.Contains(t, q.paths(), "new.txt")
	require.NotContains(t, q.paths(), "ignored.exe")

	cancel()
	<-done
}

func TestStartWatcherNoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, quietLogger())
	require.Error(t, err)
}
