package catalog

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"equipment-catalog/internal"
	"equipment-catalog/internal/config"
	"equipment-catalog/internal/storage"
)

type BuildService struct {
	client *Client
	cfg    config.Config
	log    *slog.Logger
}

func NewBuildService(cfg config.Config, log *slog.Logger) *BuildService {
	return &BuildService{client: NewClient(cfg), cfg: cfg, log: log}
}

// Build fetches the compendium, converts it and overwrites the configured
// destination. Nothing is written when any step fails.
func (s *BuildService) Build(ctx context.Context) (internal.BuildResult, error) {
	start := time.Now()
	traceID := uuid.NewString()
	log := s.log.With("trace_id", traceID)

	items, err := s.client.FetchSource(ctx)
	if err != nil {
		return internal.BuildResult{}, err
	}
	log.Info("fetched compendium", "source", s.cfg.SourceURL, "items", len(items), "elapsed", time.Since(start))

	return s.convertAndWrite(log, traceID, s.cfg.SourceURL, items, s.cfg.Destination, start)
}

// BuildFromFile runs the same conversion on a local copy of the compendium.
// An empty dest falls back to the configured destination.
func (s *BuildService) BuildFromFile(path, dest string) (internal.BuildResult, error) {
	start := time.Now()
	traceID := uuid.NewString()
	log := s.log.With("trace_id", traceID)

	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.BuildResult{}, err
	}
	items, err := ParseRawItems(blob)
	if err != nil {
		return internal.BuildResult{}, err
	}
	log.Info("loaded compendium", "source", path, "items", len(items))

	if dest == "" {
		dest = s.cfg.Destination
	}
	return s.convertAndWrite(log, traceID, path, items, dest, start)
}

func (s *BuildService) convertAndWrite(log *slog.Logger, traceID, source string, items []internal.RawItem, dest string, start time.Time) (internal.BuildResult, error) {
	entries, err := ConvertEntries(items)
	if err != nil {
		return internal.BuildResult{}, err
	}
	log.Info("converted entries", "entries", len(entries), "duplicates", len(items)-len(entries))

	if err := WriteCatalog(entries, dest); err != nil {
		return internal.BuildResult{}, err
	}
	rel := s.cfg.RelativeToRoot(dest)
	log.Info("catalog written", "path", rel, "entries", len(entries), "elapsed", time.Since(start))

	return internal.BuildResult{
		TraceID:      traceID,
		SourceURL:    source,
		Destination:  dest,
		RelativePath: rel,
		RawCount:     len(items),
		Entries:      entries,
	}, nil
}

// SaveSnapshot upserts a written catalog into the sqlite database and records
// the run. It returns the run's trace id.
func SaveSnapshot(db *storage.DB, entries []internal.Entry, source string) (string, error) {
	if err := db.UpsertEntries(entries); err != nil {
		return "", err
	}
	traceID := uuid.NewString()
	if err := db.RecordRun(traceID, source, len(entries)); err != nil {
		return "", err
	}
	if err := db.SetMetadata("catalog.last_export", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", err
	}
	return traceID, nil
}
