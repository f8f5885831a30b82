package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/cours-de-latin/grammaticus/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(source, path string) *config.Config {
	return &config.Config{
		Addr:            "127.0.0.1:0",
		Exceptions:      config.Exceptions{Source: source, Path: path, Table: "exceptions"},
		AltStemMatch:    "exact",
		LogLevel:        "info",
		ShutdownTimeout: time.Second,
	}
}

func TestNewEngineSources(t *testing.T) {
	ctx := context.Background()

	e, err := newEngine(ctx, testConfig(config.SourceEmbedded, ""), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 37, e.Exceptions().Len())

	e, err = newEngine(ctx, testConfig(config.SourceNone, ""), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, e.Exceptions().Len())

	csvPath := filepath.Join(t.TempDir(), "exceptions.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("stem|gender\npoet|m\nnaut|m\n"), 0o600))
	e, err = newEngine(ctx, testConfig(config.SourceCSV, csvPath), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, e.Exceptions().Len())

	dbPath := filepath.Join(t.TempDir(), "exceptions.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE exceptions (stem TEXT, gender TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO exceptions VALUES ('poet', 'm')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	e, err = newEngine(ctx, testConfig(config.SourceSQLite, dbPath), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, e.Exceptions().Len())

	_, err = newEngine(ctx, testConfig(config.SourceCSV, filepath.Join(t.TempDir(), "missing.csv")), zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestServeShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, "127.0.0.1:0", time.Second, newTestRouter(t), zap.NewNop())
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeBadAddr(t *testing.T) {
	err := serve(context.Background(), "256.0.0.1:bad", time.Second, newTestRouter(t), zap.NewNop())
	assert.Error(t, err)
}
