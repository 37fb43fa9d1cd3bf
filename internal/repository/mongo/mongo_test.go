package mongo_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/mongodb"
	"github.com/garnizeh/jobhunt/internal/query"
	repomongo "github.com/garnizeh/jobhunt/internal/repository/mongo"
	"github.com/garnizeh/jobhunt/pkg/models"
)

// These tests need a live server; set MONGO_TEST_URI to run them.
func setupRepo(t *testing.T) *repomongo.MongoRepo {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	c, err := mongodb.Connect(ctx, uri, "jobhunt_test_"+time.Now().Format("150405"), 5*time.Second, nil)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Database().Drop(context.Background())
		_ = c.Close(context.Background())
	})
	if err := c.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return repomongo.New(c, nil)
}

func TestMongoRepo_JobsAndStats(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.JobStats(ctx); !errors.Is(err, apperr.ErrNoData) {
		t.Fatalf("empty collection should yield ErrNoData, got %v", err)
	}

	jobs := []models.Job{
		{Title: "ML Engineer", CompanyName: "Acme", Location: "Paris, France", ApplicationsCount: models.CountOf(50),
			PublishedAt: models.DateOf(time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)), IsActive: true},
		{Title: "Data Scientist", CompanyName: "Globex", ApplicationsCount: models.ApplicationsCount{Raw: "n/a", Source: models.CountRaw},
			PublishedAt: models.PublishedAt{Raw: "March 2021", Source: models.DateRaw}, IsActive: true},
	}
	if n, err := repo.ReplaceJobs(ctx, jobs); err != nil || n != 2 {
		t.Fatalf("ReplaceJobs: %d %v", n, err)
	}

	got, err := repo.FindJob(ctx, query.Filter{Company: "acme", Title: "ML ENGINEER"})
	if err != nil {
		t.Fatalf("FindJob: %v", err)
	}
	if c, ok := got.ApplicationsCount.Int(); !ok || c != 50 {
		t.Fatalf("count: %+v", got.ApplicationsCount)
	}

	st, err := repo.JobStats(ctx)
	if err != nil {
		t.Fatalf("JobStats: %v", err)
	}
	if st.Total != 2 {
		t.Fatalf("total: %d", st.Total)
	}
	if len(st.ApplicationsHistogram) != 1 || st.ApplicationsHistogram[0].ID != int64(50) {
		t.Fatalf("histogram: %v", st.ApplicationsHistogram)
	}
	if len(st.CompanyNames) != 2 {
		t.Fatalf("non-numeric count job must stay in other facets: %v", st.CompanyNames)
	}
}

func TestMongoRepo_Users(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := &models.User{Email: "ada@example.com", FullName: "Ada", HashedPassword: "h", CreatedAt: time.Now()}
	if _, err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := repo.CreateUser(ctx, u); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate should conflict, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "missing@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
