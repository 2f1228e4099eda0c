package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doccontext/constants"
	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })
	return db
}

func sampleDoc(hash string) *entity.Document {
	return &entity.Document{
		Name:      "report.pdf",
		MimeType:  "application/pdf",
		Format:    string(constants.PDF),
		SHA256:    hash,
		Text:      "quarterly numbers",
		Method:    "literal-strings",
		Status:    string(constants.DocStatusExtracted),
		SizeBytes: 1024,
	}
}

func TestDocumentRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewDocumentRepository(db, nil)

	created, err := repo.Create(ctx, sampleDoc("abc"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, byID)

	byHash, err := repo.GetByHash(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, created.ID, byHash.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.Create(ctx, sampleDoc("abc"))
	require.ErrorIs(t, err, common.ErrDatabase)
}

func TestDocumentUpsertByHash(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(openTestDB(t), nil)

	first, existed, err := repo.UpsertByHash(ctx, sampleDoc("h1"))
	require.NoError(t, err)
	require.False(t, existed)

	dup := sampleDoc("h1")
	dup.Name = "copy.pdf"
	second, existed, err := repo.UpsertByHash(ctx, dup)
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "report.pdf", second.Name)

	_, _, err = repo.UpsertByHash(ctx, sampleDoc("h2"))
	require.NoError(t, err)

	all, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestExtractJobRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	jobs := NewExtractJobRepository(db, nil)

	job, err := jobs.Start(ctx, "a.pdf", "h", string(constants.PDF))
	require.NoError(t, err)
	require.Equal(t, string(constants.JobStatusRunning), job.Status)

	docID := uuid.New()
	require.NoError(t, jobs.FinishSuccess(ctx, job.ID, docID, "text-blocks"))
	got, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, string(constants.JobStatusOK), got.Status)
	require.Equal(t, "text-blocks", got.Method)
	require.NotNil(t, got.FinishedAt)
	require.Equal(t, docID, *got.DocumentID)

	failed, err := jobs.Start(ctx, "b.doc", "h2", string(constants.WORD))
	require.NoError(t, err)
	require.NoError(t, jobs.FinishFailure(ctx, failed.ID, "unsupported"))
	got, err = jobs.Get(ctx, failed.ID)
	require.NoError(t, err)
	require.Equal(t, string(constants.JobStatusFailed), got.Status)
	require.Equal(t, "unsupported", got.ErrorMessage)
	require.Nil(t, got.DocumentID)

	require.ErrorIs(t, jobs.FinishFailure(ctx, uuid.New(), "x"), common.ErrNotFound)
}

func TestRebind(t *testing.T) {
	pg := &DB{Driver: DriverPostgres}
	require.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.Rebind("SELECT a FROM t WHERE x = ? AND y = ?"))
	lite := &DB{Driver: DriverSQLite}
	require.Equal(t, "x = ?", lite.Rebind("x = ?"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}
