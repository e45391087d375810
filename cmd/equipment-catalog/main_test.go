package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-catalog/internal/config"
)

const rawPayload = `[
  {"name":"Vibroblade","equipmentCategory":"WeaponBasicMelee","weight":"3","cost":"50"},
  {"name":"Armoring Kit","equipmentCategory":"ArmoringKit","weight":"12","cost":150}
]`

func testConfig(t *testing.T, sourceURL string) config.Config {
	t.Helper()
	root := t.TempDir()
	return config.Config{
		ProjectRoot:    root,
		Destination:    filepath.Join(root, config.DefaultDestination),
		DBPath:         filepath.Join(root, "data", "catalog.db"),
		SourceURL:      sourceURL,
		FetchTimeoutMs: 5000,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunBuildPrintsSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, rawPayload)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, quietLogger(), "build", nil, &out))

	assert.Equal(t, "Wrote 2 equipment entries to "+filepath.Join("assets", "catalog", "equipment.json")+"\n", out.String())
	_, err := os.Stat(cfg.Destination)
	require.NoError(t, err)
}

func TestRunBuildFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	var out bytes.Buffer
	err := run(context.Background(), cfg, quietLogger(), "build", nil, &out)
	require.Error(t, err)
	assert.Empty(t, out.String())

	_, statErr := os.Stat(cfg.Destination)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunConvertThenExports(t *testing.T) {
	cfg := testConfig(t, "http://unused.invalid")
	input := filepath.Join(cfg.ProjectRoot, "raw.json")
	require.NoError(t, os.WriteFile(input, []byte(rawPayload), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, quietLogger(), "convert", []string{"--input", input}, &out))
	assert.Contains(t, out.String(), "Wrote 2 equipment entries")

	out.Reset()
	xlsx := filepath.Join(cfg.ProjectRoot, "out", "equipment.xlsx")
	require.NoError(t, run(context.Background(), cfg, quietLogger(), "export:xlsx", []string{"--out", xlsx}, &out))
	assert.Contains(t, out.String(), "exported 2 entries")
	_, err := os.Stat(xlsx)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, run(context.Background(), cfg, quietLogger(), "export:sqlite", nil, &out))
	assert.Equal(t, "stored 2 entries in "+filepath.Join("data", "catalog.db")+"\n", out.String())
}

func TestRunArgumentErrors(t *testing.T) {
	cfg := testConfig(t, "http://unused.invalid")
	ctx := context.Background()

	assert.Error(t, run(ctx, cfg, quietLogger(), "convert", nil, io.Discard))
	assert.Error(t, run(ctx, cfg, quietLogger(), "export:xlsx", nil, io.Discard))
	assert.Error(t, run(ctx, cfg, quietLogger(), "publish", nil, io.Discard))
	assert.Error(t, run(ctx, cfg, quietLogger(), "catalog:frobnicate", nil, io.Discard))
}
