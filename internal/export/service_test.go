package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/doccontext/internal/entity"
	"github.com/joseph-ayodele/doccontext/internal/repository"
)

func TestExportDocumentsXLSX(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.Open(ctx, repository.Config{
		Driver: repository.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "export.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })

	docs := repository.NewDocumentRepository(db, logger)
	_, err = docs.Create(ctx, &entity.Document{
		Name: "long.txt", Format: "TEXT", SHA256: "h1", Status: "EXTRACTED", Method: "text",
		Text: strings.Repeat("é", 300), SizeBytes: 600,
	})
	require.NoError(t, err)

	out, err := NewService(docs, logger).ExportDocumentsXLSX(ctx, 10)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	require.Equal(t, []string{"Documents"}, wb.GetSheetList())
	rows, err := wb.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Name", rows[0][1])
	require.Equal(t, "long.txt", rows[1][1])
	require.Equal(t, "300", rows[1][6])
	require.Equal(t, 200, len([]rune(rows[1][7])))
	require.True(t, strings.HasSuffix(rows[1][7], "…"))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "ab…", truncate("abcdef", 3))
	require.Equal(t, "abc", truncate("abc", 0))
}
