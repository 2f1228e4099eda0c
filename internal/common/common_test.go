package common

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_URL", "HTTP_ADDR", "REMOTE_URL", "INBOX_DIR", "INGEST_WORKERS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.NotEmpty(t, cfg.Database.DSN)
	require.Equal(t, ":5000", cfg.Server.HTTPAddr)
	require.Empty(t, cfg.Remote.URL)
	require.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	require.Equal(t, 2, cfg.Ingest.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_URL", "postgres://localhost/doc")
	t.Setenv("REMOTE_TIMEOUT", "5s")
	t.Setenv("INGEST_WORKERS", "not-a-number")
	t.Setenv("DB_MAX_CONNS", "7")

	cfg := LoadConfig()
	require.Equal(t, "pgx", cfg.Database.Driver)
	require.Equal(t, int32(7), cfg.Database.MaxConns)
	require.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	require.Equal(t, 2, cfg.Ingest.Workers)
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Database.Driver = "mysql"
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidInput)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "CONFIG_ERROR", appErr.Code)

	cfg = LoadConfig()
	cfg.Ingest.Dir = t.TempDir()
	cfg.Ingest.Workers = 0
	require.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOCCONTEXT_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("DOCCONTEXT_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("DOCCONTEXT_TEST_VALUE"))
	require.NoError(t, LoadDotEnv(path))
	require.Equal(t, "from-file", os.Getenv("DOCCONTEXT_TEST_VALUE"))
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusOK, HTTPStatus(nil))
	require.Equal(t, http.StatusNotFound, HTTPStatus(NotFoundError("document")))
	require.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidArgumentErrorf("bad %s", "id")))
	require.Equal(t, http.StatusBadRequest, HTTPStatus(NewValidator().Field("name", "", Required).Err()))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("name", "  ", Required).
		Field("id", "nope", UUID).
		Field("type", "abcdef", MaxLength(3))
	require.Len(t, v.Errors(), 3)
	require.ErrorIs(t, v.Err(), ErrValidation)
	require.Contains(t, v.ErrorMessage(), "field 'id' must be a valid UUID")

	var enabled *bool
	require.True(t, NewValidator().Field("enabled", enabled, Required).HasErrors())
	require.NoError(t, NewValidator().Field("name", "ok", Required, MaxLength(3)).Err())
}
