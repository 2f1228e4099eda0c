package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doccontext/constants"
	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/entity"
)

type ExtractJobRepository interface {
	Start(ctx context.Context, name, sha256, format string) (*entity.ExtractJob, error)
	FinishSuccess(ctx context.Context, jobID uuid.UUID, documentID uuid.UUID, method string) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error)
}

type extractJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewExtractJobRepository(db *DB, log *slog.Logger) ExtractJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractJobRepo{db: db, log: log}
}

func (r *extractJobRepo) Start(ctx context.Context, name, sha256, format string) (*entity.ExtractJob, error) {
	job := &entity.ExtractJob{
		ID:           uuid.New(),
		DocumentName: name,
		SHA256:       sha256,
		Format:       format,
		Status:       string(constants.JobStatusRunning),
		StartedAt:    time.UnixMilli(time.Now().UnixMilli()).UTC(),
	}
	q := r.db.Rebind(`INSERT INTO extract_jobs (id, document_name, sha256, format, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := r.db.SQL.ExecContext(ctx, q, job.ID.String(), name, sha256, format, job.Status, job.StartedAt.UnixMilli())
	if err != nil {
		r.log.Error("extract_job start failed", "name", name, "err", err)
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	r.log.Info("extract_job started", "job_id", job.ID, "name", name, "format", format)
	return job, nil
}

func (r *extractJobRepo) finish(ctx context.Context, jobID uuid.UUID, status constants.JobStatus, method, message, documentID string) error {
	q := r.db.Rebind(`UPDATE extract_jobs SET status = ?, method = ?, error_message = ?, document_id = ?, finished_at = ? WHERE id = ?`)
	res, err := r.db.SQL.ExecContext(ctx, q, string(status), method, message, documentID, time.Now().UnixMilli(), jobID.String())
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("extract_job %s: %w", jobID, common.ErrNotFound)
	}
	return nil
}

func (r *extractJobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID, documentID uuid.UUID, method string) error {
	if err := r.finish(ctx, jobID, constants.JobStatusOK, method, "", documentID.String()); err != nil {
		r.log.Error("extract_job finish(OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("extract_job finished (OK)", "job_id", jobID, "method", method)
	return nil
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	if err := r.finish(ctx, jobID, constants.JobStatusFailed, "", message, ""); err != nil {
		r.log.Error("extract_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("extract_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}

func (r *extractJobRepo) Get(ctx context.Context, jobID uuid.UUID) (*entity.ExtractJob, error) {
	q := r.db.Rebind(`SELECT document_name, sha256, format, status, method, error_message, document_id, started_at, finished_at FROM extract_jobs WHERE id = ?`)
	var (
		job              = entity.ExtractJob{ID: jobID}
		docID            string
		started, finished int64
	)
	err := r.db.SQL.QueryRowContext(ctx, q, jobID.String()).Scan(
		&job.DocumentName, &job.SHA256, &job.Format, &job.Status, &job.Method, &job.ErrorMessage, &docID, &started, &finished,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("extract_job %s: %w", jobID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	job.StartedAt = time.UnixMilli(started).UTC()
	if finished > 0 {
		t := time.UnixMilli(finished).UTC()
		job.FinishedAt = &t
	}
	if docID != "" {
		id, err := uuid.Parse(docID)
		if err != nil {
			return nil, fmt.Errorf("parse document id: %w", err)
		}
		job.DocumentID = &id
	}
	return &job, nil
}
