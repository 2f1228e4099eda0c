package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/entity"
)

type DocumentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	GetByHash(ctx context.Context, sha256 string) (*entity.Document, error)
	Create(ctx context.Context, doc *entity.Document) (*entity.Document, error)
	// UpsertByHash returns the stored row for doc.SHA256, creating it when
	// absent. The bool is true when the row already existed.
	UpsertByHash(ctx context.Context, doc *entity.Document) (*entity.Document, bool, error)
	List(ctx context.Context, limit int) ([]*entity.Document, error)
}

type documentRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewDocumentRepository(db *DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepo{db: db, logger: logger}
}

const documentColumns = `id, name, mime_type, format, sha256, text, method, status, size_bytes, created_at`

func scanDocument(row interface{ Scan(...any) error }) (*entity.Document, error) {
	var (
		d       entity.Document
		id      string
		created int64
	)
	if err := row.Scan(&id, &d.Name, &d.MimeType, &d.Format, &d.SHA256, &d.Text, &d.Method, &d.Status, &d.SizeBytes, &created); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	d.ID = parsed
	d.CreatedAt = time.UnixMilli(created).UTC()
	return &d, nil
}

func (r *documentRepo) get(ctx context.Context, where string, arg any) (*entity.Document, error) {
	q := r.db.Rebind(`SELECT ` + documentColumns + ` FROM documents WHERE ` + where + ` = ?`)
	doc, err := scanDocument(r.db.SQL.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %s=%v: %w", where, arg, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get document", where, arg, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	return doc, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	return r.get(ctx, "id", id.String())
}

func (r *documentRepo) GetByHash(ctx context.Context, sha256 string) (*entity.Document, error) {
	return r.get(ctx, "sha256", sha256)
}

func (r *documentRepo) Create(ctx context.Context, doc *entity.Document) (*entity.Document, error) {
	row := *doc
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	// Millisecond precision is what the store keeps.
	row.CreatedAt = time.UnixMilli(row.CreatedAt.UnixMilli()).UTC()

	q := r.db.Rebind(`INSERT INTO documents (` + documentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.SQL.ExecContext(ctx, q,
		row.ID.String(), row.Name, row.MimeType, row.Format, row.SHA256,
		row.Text, row.Method, row.Status, row.SizeBytes, row.CreatedAt.UnixMilli(),
	)
	if err != nil {
		r.logger.Error("failed to create document", "name", row.Name, "sha256", row.SHA256, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	r.logger.Info("document created", "document_id", row.ID, "name", row.Name, "status", row.Status)
	return &row, nil
}

func (r *documentRepo) UpsertByHash(ctx context.Context, doc *entity.Document) (*entity.Document, bool, error) {
	existing, err := r.GetByHash(ctx, doc.SHA256)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	created, err := r.Create(ctx, doc)
	if err != nil {
		// Another writer may have stored the same hash in between.
		if existing, getErr := r.GetByHash(ctx, doc.SHA256); getErr == nil {
			return existing, true, nil
		}
		r.logger.Error("failed to upsert document by hash", "name", doc.Name, "error", err)
		return nil, false, err
	}
	return created, false, nil
}

func (r *documentRepo) List(ctx context.Context, limit int) ([]*entity.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.Rebind(`SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC, id LIMIT ?`)
	rows, err := r.db.SQL.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	return out, nil
}
