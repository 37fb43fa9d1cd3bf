package mock

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/garnizeh/jobhunt/internal/analytics"
	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/models"
)

// Test helpers and mocks. The repos keep data in memory and evaluate filters
// and stats with the same code the SQLite gateway uses. Setting an *Err field
// makes the matching method fail.
type Mocks struct {
	JobRepo  *mockJobRepo
	UserRepo *mockUserRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		JobRepo:  &mockJobRepo{},
		UserRepo: &mockUserRepo{users: map[string]*models.User{}},
	}
}

type mockJobRepo struct {
	mu         sync.Mutex
	Stored     []models.Job
	nextID     int
	Stats      *models.JobStats
	ListErr    error
	ReplaceErr error
	StatsErr   error
	StatsCalls int
}

func (m *mockJobRepo) matching(f query.Filter) []models.Job {
	var out []models.Job
	for i := range m.Stored {
		if f.Match(&m.Stored[i]) {
			out = append(out, m.Stored[i])
		}
	}
	return out
}

func (m *mockJobRepo) FindJob(ctx context.Context, f query.Filter) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	found := m.matching(f)
	if len(found) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &found[0], nil
}

func (m *mockJobRepo) ListJobs(ctx context.Context, f query.Filter, p query.Page) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	found := m.matching(f)
	if p.Offset >= len(found) {
		return nil, apperr.ErrNotFound
	}
	end := min(p.Offset+p.Limit, len(found))
	return found[p.Offset:end], nil
}

func (m *mockJobRepo) CountJobs(ctx context.Context, f query.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return 0, m.ListErr
	}
	return int64(len(m.matching(f))), nil
}

func (m *mockJobRepo) ReplaceJobs(ctx context.Context, jobs []models.Job) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplaceErr != nil {
		return 0, m.ReplaceErr
	}
	m.Stored = make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		m.nextID++
		j.ID = strconv.Itoa(m.nextID)
		m.Stored = append(m.Stored, j)
	}
	return len(m.Stored), nil
}

// JobStats returns Stats when set, otherwise computes them from Stored.
func (m *mockJobRepo) JobStats(ctx context.Context) (*models.JobStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatsCalls++
	if m.StatsErr != nil {
		return nil, m.StatsErr
	}
	if m.Stats != nil {
		return m.Stats, nil
	}
	return analytics.Compute(m.Stored)
}

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	nextID    int
	CreateErr error
	GetErr    error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	key := u.Email
	if _, ok := m.users[key]; ok {
		return "", apperr.ErrConflict
	}
	m.nextID++
	stored := *u
	stored.ID = strconv.Itoa(m.nextID)
	m.users[key] = &stored
	return stored.ID, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	u, ok := m.users[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, email string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return apperr.ErrNotFound
	}
	u.LastLogin = &at
	return nil
}

// Put stores u directly, bypassing CreateUser.
func (m *mockUserRepo) Put(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.Email] = &cp
}
