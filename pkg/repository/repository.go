package repository

import (
	"context"
	"time"

	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Lookups that match nothing return apperr.ErrNotFound.

type JobRepo interface {
	FindJob(ctx context.Context, f query.Filter) (*models.Job, error)
	ListJobs(ctx context.Context, f query.Filter, p query.Page) ([]models.Job, error)
	CountJobs(ctx context.Context, f query.Filter) (int64, error)
	// ReplaceJobs swaps the whole collection for jobs atomically and returns
	// the number stored.
	ReplaceJobs(ctx context.Context, jobs []models.Job) (int, error)
}

type StatsRepo interface {
	// JobStats returns apperr.ErrNoData for an empty collection and wraps
	// aggregation failures in *apperr.DataProcessingError.
	JobStats(ctx context.Context) (*models.JobStats, error)
}

type UserRepo interface {
	// CreateUser returns apperr.ErrConflict when the email is taken.
	CreateUser(ctx context.Context, u *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, email string, at time.Time) error
}
