package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// InsecureJWTSecret is the built-in signing key; only development may use it.
const InsecureJWTSecret = "your-secret-key-here"

const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"

	StrategyRandom = "random"
	StrategyOllama = "ollama"
)

type Config struct {
	Env           string        `yaml:"env"`
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	TokenDuration time.Duration `yaml:"token_duration"`
	CORSOrigins   []string      `yaml:"cors_origins"`

	Store       StoreConfig       `yaml:"store"`
	Auth        AuthConfig        `yaml:"auth"`
	Query       QueryConfig       `yaml:"query"`
	Cache       CacheConfig       `yaml:"cache"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Eligibility EligibilityConfig `yaml:"eligibility"`
	Ollama      OllamaConfig      `yaml:"ollama"`
	Log         LogConfig         `yaml:"log"`
}

type StoreConfig struct {
	Driver        string        `yaml:"driver"`
	MongoURI      string        `yaml:"mongo_uri"`
	MongoDatabase string        `yaml:"mongo_database"`
	SQLitePath    string        `yaml:"sqlite_path"`
	Timeout       time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	StrictPassword bool    `yaml:"strict_password"`
	BcryptCost     int     `yaml:"bcrypt_cost"`
	LoginRate      float64 `yaml:"login_rate"`
	LoginBurst     int     `yaml:"login_burst"`
	SecureCookie   bool    `yaml:"secure_cookie"`
	// TrustedProxies lists the addresses or CIDR ranges whose
	// X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// ProxyPrefixes parses TrustedProxies. A bare address becomes a single-host
// prefix.
func (a AuthConfig) ProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(a.TrustedProxies))
	for _, s := range a.TrustedProxies {
		s = strings.TrimSpace(s)
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("auth.trusted_proxies: %q is neither an address nor a CIDR", s)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

type QueryConfig struct {
	MaxLimit int `yaml:"max_limit"`
}

type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

type IngestConfig struct {
	Source   string `yaml:"source"`
	Schedule string `yaml:"schedule"`
}

type EligibilityConfig struct {
	Strategy string `yaml:"strategy"`
	Model    string `yaml:"model"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

type LogConfig struct {
	Level        string        `yaml:"level"`
	Dev          bool          `yaml:"dev"`
	File         string        `yaml:"file"`
	MaxAge       time.Duration `yaml:"max_age"`
	RotationTime time.Duration `yaml:"rotation_time"`
}

// LoadConfig reads .env (if present), applies defaults, the YAML file at path
// (if any) and finally environment overrides.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:          ":8080",
		JWTSecret:     InsecureJWTSecret,
		APITimeout:    15 * time.Second,
		TokenDuration: 30 * time.Minute,
		CORSOrigins:   []string{"http://localhost:3000"},
		Store: StoreConfig{
			Driver:        StoreMongo,
			MongoURI:      "mongodb://localhost:27017/",
			MongoDatabase: "ai_jobhunt",
			SQLitePath:    "jobhunt.db",
			Timeout:       5 * time.Second,
		},
		Auth:        AuthConfig{LoginRate: 1, LoginBurst: 10},
		Query:       QueryConfig{MaxLimit: 100},
		Cache:       CacheConfig{TTL: 5 * time.Minute},
		Eligibility: EligibilityConfig{Strategy: StrategyRandom, Model: "llama3"},
		Log:         LogConfig{Level: "info", MaxAge: 7 * 24 * time.Hour, RotationTime: 24 * time.Hour},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("JOBHUNT_ENV", cfg.Env)
	cfg.Addr = getEnv("JOBHUNT_ADDR", cfg.Addr)
	cfg.JWTSecret = getEnv("SECRET_KEY", cfg.JWTSecret)
	cfg.JWTSecret = getEnv("JOBHUNT_JWT_SECRET", cfg.JWTSecret)
	cfg.Store.Driver = getEnv("JOBHUNT_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.MongoURI = getEnv("MONGO_URI", cfg.Store.MongoURI)
	cfg.Store.SQLitePath = getEnv("JOBHUNT_SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Cache.RedisURL = getEnv("JOBHUNT_REDIS_URL", cfg.Cache.RedisURL)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	if v := os.Getenv("LOG_DEV"); v != "" {
		cfg.Log.Dev, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("JOBHUNT_TRUSTED_PROXIES"); v != "" {
		cfg.Auth.TrustedProxies = splitList(v)
	}
	if v := os.Getenv("JOBHUNT_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
}

// IsDevelopment reports whether the service runs in the development env.
func (c *Config) IsDevelopment() bool {
	env := c.Env
	if env == "" {
		env = os.Getenv("JOBHUNT_ENV")
	}
	return strings.EqualFold(env, "development") || strings.EqualFold(env, "dev")
}

// Validate checks the settings and fills defaults for optional sections.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret must be set"))
	} else if c.JWTSecret == InsecureJWTSecret && !c.IsDevelopment() {
		errs = append(errs, errors.New("jwt_secret uses the built-in insecure value; set JOBHUNT_JWT_SECRET or run with JOBHUNT_ENV=development"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}

	switch c.Store.Driver {
	case StoreMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("store.mongo_uri must be set for the mongo driver"))
		}
		if c.Store.MongoDatabase == "" {
			c.Store.MongoDatabase = "ai_jobhunt"
		}
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path must be set for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}

	if c.Eligibility.Strategy == "" {
		c.Eligibility.Strategy = StrategyRandom
	}
	switch c.Eligibility.Strategy {
	case StrategyRandom:
	case StrategyOllama:
		if c.Eligibility.Model == "" {
			errs = append(errs, errors.New("eligibility.model must be set for the ollama strategy"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown eligibility.strategy %q", c.Eligibility.Strategy))
	}

	if c.Ingest.Schedule != "" {
		if _, err := cron.ParseStandard(c.Ingest.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid ingest.schedule: %w", err))
		}
		if c.Ingest.Source == "" {
			errs = append(errs, errors.New("ingest.source must be set when ingest.schedule is"))
		}
	}

	if c.Query.MaxLimit <= 0 {
		c.Query.MaxLimit = 100
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Auth.LoginRate <= 0 {
		c.Auth.LoginRate = 1
	}
	if c.Auth.LoginBurst <= 0 {
		c.Auth.LoginBurst = 10
	}

	if _, err := c.Auth.ProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}

	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Ollama.Timeout <= 0 {
		c.Ollama.Timeout = 30 * time.Second
	}
	if c.Ollama.Retries == 0 {
		c.Ollama.Retries = 2
	}
	if c.Ollama.Backoff <= 0 {
		c.Ollama.Backoff = 500 * time.Millisecond
	}
	if c.Ollama.CircuitFailureThreshold <= 0 {
		c.Ollama.CircuitFailureThreshold = 5
	}
	if c.Ollama.CircuitReset <= 0 {
		c.Ollama.CircuitReset = 30 * time.Second
	}

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
