package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/jobhunt/internal/normalize"
	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/garnizeh/jobhunt/pkg/repository"
	"go.uber.org/zap"
)

// ErrNoValidRows aborts an import in which every row failed validation. The
// store is left untouched.
var ErrNoValidRows = errors.New("no valid rows to import")

// Invalidator drops derived data after the job set changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Rejection struct {
	// Row is 1-based and counts data rows only.
	Row int
	Err error
}

type Result struct {
	Rows     int
	Imported int
	Rejected []Rejection
	Took     time.Duration
}

type Importer struct {
	norm   *normalize.Normalizer
	jobs   repository.JobRepo
	cache  Invalidator
	logger *zap.Logger
}

// NewImporter wires an importer. cache may be nil.
func NewImporter(norm *normalize.Normalizer, jobs repository.JobRepo, cache Invalidator, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{norm: norm, jobs: jobs, cache: cache, logger: logger}
}

// Run loads path and imports its rows.
func (im *Importer) Run(ctx context.Context, path string) (*Result, error) {
	rows, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	im.logger.Info("loaded job records", zap.String("path", path), zap.Int("rows", len(rows)))
	return im.Import(ctx, rows)
}

// Import normalizes rows, skipping the invalid ones, and replaces the stored
// jobs with the valid ones.
func (im *Importer) Import(ctx context.Context, rows []map[string]any) (*Result, error) {
	start := time.Now()
	res := &Result{Rows: len(rows)}
	jobs := make([]models.Job, 0, len(rows))

	for i, raw := range rows {
		job, _, err := im.norm.Normalize(ctx, raw)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Row: i + 1, Err: err})
			im.logger.Warn("skipping invalid row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		jobs = append(jobs, *job)
	}

	if len(jobs) == 0 {
		return res, ErrNoValidRows
	}

	n, err := im.jobs.ReplaceJobs(ctx, jobs)
	if err != nil {
		return res, fmt.Errorf("replace jobs: %w", err)
	}
	res.Imported = n

	if im.cache != nil {
		if err := im.cache.Invalidate(ctx); err != nil {
			im.logger.Warn("stats cache not invalidated", zap.Error(err))
		}
	}

	res.Took = time.Since(start)
	im.logger.Info("job import complete",
		zap.Int("rows", res.Rows),
		zap.Int("imported", res.Imported),
		zap.Int("rejected", len(res.Rejected)),
		zap.Duration("took", res.Took))
	return res, nil
}
