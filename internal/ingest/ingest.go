// Package ingest discovers documents on disk and hands them to the queue.
package ingest

import (
	"context"

	"github.com/joseph-ayodele/doccontext/internal/async"
)

// Enqueuer accepts jobs; *async.ProcessorQueue implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, job async.Job) error
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Queued  uint32
	Failed  uint32
}
