package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/garnizeh/jobhunt/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		TokenDuration: 30 * time.Minute,
		Store:         config.StoreConfig{Driver: config.StoreSQLite, SQLitePath: "jobhunt.db"},
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("JOBHUNT_ENV", "production")

	cfg := baseConfig()
	cfg.JWTSecret = config.InsecureJWTSecret

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("JOBHUNT_ENV", "development")

	cfg := baseConfig()
	cfg.JWTSecret = config.InsecureJWTSecret

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := baseConfig()
	cfg.Store.Driver = "postgres"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for an unknown store driver")
	}
}

func TestValidate_UnknownStrategy(t *testing.T) {
	cfg := baseConfig()
	cfg.Eligibility.Strategy = "oracle"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for an unknown eligibility strategy")
	}
}

func TestValidate_BadSchedule(t *testing.T) {
	cfg := baseConfig()
	cfg.Ingest = config.IngestConfig{Source: "jobs.xlsx", Schedule: "every tuesday"}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for a bad cron spec")
	}

	cfg.Ingest.Schedule = "@every 1h"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("descriptor schedule should be accepted: %v", err)
	}
}

func TestValidate_DefaultsPopulated(t *testing.T) {
	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}

	if cfg.Ollama.BaseURL == "" {
		t.Fatalf("expected Ollama.BaseURL to be populated, got empty")
	}
	if cfg.Ollama.Timeout <= 0 {
		t.Fatalf("expected Ollama.Timeout to be > 0")
	}
	if cfg.Eligibility.Strategy != config.StrategyRandom {
		t.Fatalf("expected random strategy by default, got %q", cfg.Eligibility.Strategy)
	}
	if cfg.Query.MaxLimit != 100 {
		t.Fatalf("expected max limit 100, got %d", cfg.Query.MaxLimit)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"JOBHUNT_ADDR", "JOBHUNT_JWT_SECRET", "SECRET_KEY", "MONGO_URI", "JOBHUNT_STORE_DRIVER"} {
		t.Setenv(k, "")
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != config.InsecureJWTSecret {
		t.Fatalf("unexpected JWTSecret: got %q", cfg.JWTSecret)
	}
	if cfg.Store.Driver != config.StoreMongo || cfg.Store.MongoDatabase != "ai_jobhunt" {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.TokenDuration != 30*time.Minute {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 30*time.Minute)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Setenv("JOBHUNT_ADDR", "")
	t.Setenv("JOBHUNT_JWT_SECRET", "")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("JOBHUNT_STORE_DRIVER", "")

	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	f.Close()

	content := []byte(`addr: ":9090"
jwt_secret: "filekey"
timeout: "30s"
token_duration: "2h"
store:
  driver: sqlite
  sqlite_path: "test.db"
auth:
  strict_password: true
`)
	if err := os.WriteFile(f.Name(), content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.Store.Driver != config.StoreSQLite || cfg.Store.SQLitePath != "test.db" {
		t.Fatalf("unexpected store: %+v", cfg.Store)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if !cfg.Auth.StrictPassword {
		t.Fatalf("expected strict password policy from file")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("JOBHUNT_ADDR", ":7070")
	t.Setenv("JOBHUNT_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("JOBHUNT_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.5")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("env should override addr, got %q", cfg.Addr)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if len(cfg.Auth.TrustedProxies) != 2 || cfg.Auth.TrustedProxies[1] != "192.168.1.5" {
		t.Fatalf("unexpected trusted proxies: %v", cfg.Auth.TrustedProxies)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "bad-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	f.Close()

	if err := os.WriteFile(f.Name(), []byte("addr: [unterminated"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(f.Name()); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}

func TestAuthConfig_ProxyPrefixes(t *testing.T) {
	a := config.AuthConfig{TrustedProxies: []string{"10.1.2.3/16", " 192.168.1.5 ", "::1"}}
	got, err := a.ProxyPrefixes()
	if err != nil {
		t.Fatalf("ProxyPrefixes: %v", err)
	}
	want := []string{"10.1.0.0/16", "192.168.1.5/32", "::1/128"}
	if len(got) != len(want) {
		t.Fatalf("want %v got %v", want, got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("prefix %d: want %s got %s", i, want[i], got[i])
		}
	}

	cfg := baseConfig()
	cfg.Auth.TrustedProxies = []string{"proxy.internal"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for a hostname in trusted_proxies")
	}
}
