// Package pipeline stores extracted document context, one row per distinct file.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doccontext/constants"
	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/content"
	"github.com/joseph-ayodele/doccontext/internal/entity"
	"github.com/joseph-ayodele/doccontext/internal/repository"
)

// Resolver turns a file into text or a placeholder; content.Service implements it.
type Resolver interface {
	Resolve(ctx context.Context, f content.File) content.Extraction
}

type Pipeline struct {
	Docs    repository.DocumentRepository
	Jobs    repository.ExtractJobRepository
	Content Resolver
	Log     *slog.Logger
}

// NewPipeline wires the stages. jobs may be nil to skip job bookkeeping.
func NewPipeline(docs repository.DocumentRepository, jobs repository.ExtractJobRepository, c Resolver, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Docs: docs, Jobs: jobs, Content: c, Log: log}
}

type Result struct {
	Document *entity.Document
	// Existing is true when the content hash was already stored.
	Existing bool
	JobID    uuid.UUID
}

// Hash returns the hex sha256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Run reads f once, returns the stored document when its hash is known, and
// otherwise extracts and stores it. Placeholder results are stored too.
func (p *Pipeline) Run(ctx context.Context, f content.File) (Result, error) {
	data, err := f.Bytes(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", f.Name(), err)
	}
	hash := Hash(data)

	existing, err := p.Docs.GetByHash(ctx, hash)
	if err == nil {
		p.Log.InfoContext(ctx, "pipeline.dedupe", "name", f.Name(), "document_id", existing.ID)
		return Result{Document: existing, Existing: true}, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return Result{}, fmt.Errorf("lookup hash: %w", err)
	}

	format := constants.DetectFormat(f.Name(), f.ContentType())

	var jobID uuid.UUID
	if p.Jobs != nil {
		job, err := p.Jobs.Start(ctx, f.Name(), hash, string(format))
		if err != nil {
			return Result{}, err
		}
		jobID = job.ID
	}

	ex := p.Content.Resolve(ctx, content.FromBytes(f.Name(), f.ContentType(), data))

	status := constants.DocStatusExtracted
	if ex.Placeholder {
		status = constants.DocStatusPlaceholder
	}
	doc, existed, err := p.Docs.UpsertByHash(ctx, &entity.Document{
		Name:      f.Name(),
		MimeType:  f.ContentType(),
		Format:    string(ex.Format),
		SHA256:    hash,
		Text:      ex.Text,
		Method:    ex.Method,
		Status:    string(status),
		SizeBytes: int64(len(data)),
	})
	if err != nil {
		p.finishFailure(ctx, jobID, err.Error())
		return Result{JobID: jobID}, fmt.Errorf("store document: %w", err)
	}

	if ex.Placeholder {
		p.finishFailure(ctx, jobID, ex.Err.Error())
	} else if p.Jobs != nil {
		if err := p.Jobs.FinishSuccess(ctx, jobID, doc.ID, ex.Method); err != nil {
			return Result{Document: doc, Existing: existed, JobID: jobID}, err
		}
	}

	p.Log.InfoContext(ctx, "pipeline.stored",
		"name", f.Name(), "document_id", doc.ID, "status", status, "method", ex.Method, "existing", existed)
	return Result{Document: doc, Existing: existed, JobID: jobID}, nil
}

func (p *Pipeline) finishFailure(ctx context.Context, jobID uuid.UUID, msg string) {
	if p.Jobs == nil {
		return
	}
	if err := p.Jobs.FinishFailure(ctx, jobID, msg); err != nil {
		p.Log.WarnContext(ctx, "pipeline.job.finish_failed", "job_id", jobID, "error", err)
	}
}
