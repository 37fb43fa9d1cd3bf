package sqlite

import (
	"context"
	"errors"

	"github.com/garnizeh/jobhunt/internal/analytics"
	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/models"
)

// JobStats loads every job and aggregates in process; SQLite has no facet
// engine and the dataset is a single spreadsheet.
func (r *SQLiteRepo) JobStats(ctx context.Context) (*models.JobStats, error) {
	n, err := r.CountJobs(ctx, query.Filter{})
	if err != nil {
		return nil, &apperr.DataProcessingError{Err: err, Hint: analytics.Hint}
	}
	if n == 0 {
		return nil, apperr.ErrNoData
	}

	jobs, err := r.ListJobs(ctx, query.Filter{}, query.Page{Limit: int(n)})
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrNoData
	}
	if err != nil {
		return nil, &apperr.DataProcessingError{Err: err, Hint: analytics.Hint}
	}

	return analytics.Compute(jobs)
}
