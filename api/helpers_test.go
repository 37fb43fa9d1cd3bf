package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/jobhunt/api"
	"github.com/garnizeh/jobhunt/internal/auth"
	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/eligibility"
	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/garnizeh/jobhunt/pkg/repository/mock"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "testsecret"

type fixedAssessor struct{ eligible bool }

func (f fixedAssessor) Assess(ctx context.Context, req eligibility.Request) (eligibility.Decision, error) {
	if err := eligibility.CheckExtension(req.ResumeName); err != nil {
		return eligibility.Decision{}, err
	}
	return eligibility.NewDecision(f.eligible), nil
}

type testEnv struct {
	router *mux.Router
	mocks  *mock.Mocks
	auth   *auth.Service
	cfg    *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		TokenDuration: time.Hour,
		CORSOrigins:   []string{"http://localhost:3000"},
		Auth:          config.AuthConfig{LoginRate: 100, LoginBurst: 100},
		Query:         config.QueryConfig{MaxLimit: 100},
	}
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	m := mock.NewMocks()
	svc := auth.NewService(m.UserRepo, auth.BcryptHasher{Cost: bcrypt.MinCost},
		auth.NewTokenIssuer(testSecret, cfg.TokenDuration), auth.PasswordPolicy{}, nil)

	r := api.SetupRoutes(cfg, "1.2.3", "2026-01-01T00:00:00Z", api.Deps{
		Jobs:        m.JobRepo,
		Stats:       m.JobRepo,
		Auth:        svc,
		Eligibility: fixedAssessor{eligible: true},
	})
	return &testEnv{router: r, mocks: m, auth: svc, cfg: cfg}
}

// addUser stores a user with the given plaintext password.
func (e *testEnv) addUser(t *testing.T, email, password string, disabled bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	e.mocks.UserRepo.Put(&models.User{
		ID:             "u1",
		Email:          email,
		FullName:       "Test User",
		HashedPassword: string(hash),
		Disabled:       disabled,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (e *testEnv) do(req *http.Request) (*http.Response, string) {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	res := w.Result()
	b, _ := io.ReadAll(res.Body)
	res.Body.Close()
	return res, string(b)
}

func loginRequest(email, password string) *http.Request {
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
