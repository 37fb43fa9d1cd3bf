package api

import (
	"github.com/garnizeh/jobhunt/internal/auth"
	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/eligibility"
	"github.com/garnizeh/jobhunt/pkg/repository"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Jobs        repository.JobRepo
	Stats       repository.StatsRepo
	Auth        *auth.Service
	Eligibility eligibility.Assessor
	// Store is pinged by /health; nil skips the check.
	Store Pinger
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(CORSMiddleware(cfg.CORSOrigins))

	// Create handlers
	systemHandler := NewSystemHandler(deps.Store)
	authHandler := NewAuthHandler(deps.Auth, cfg.Auth.SecureCookie)
	jobsHandler := NewJobsHandler(deps.Jobs, cfg.Query.MaxLimit)
	statsHandler := NewStatsHandler(deps.Stats)
	eligibilityHandler := NewEligibilityHandler(deps.Eligibility)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	authV1.HandleFunc("/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	authV1.HandleFunc("/check", authHandler.Check).Methods("GET", "OPTIONS")

	// Validate already rejected malformed entries.
	proxies, _ := cfg.Auth.ProxyPrefixes()
	login := authV1.Path("/login").Subrouter()
	login.Use(RateLimitMiddleware(cfg.Auth.LoginRate, cfg.Auth.LoginBurst, proxies))
	login.Methods("POST", "OPTIONS").HandlerFunc(authHandler.Login)

	protected := authV1.PathPrefix("/me").Subrouter()
	protected.Use(JWTAuthMiddleware(deps.Auth))
	protected.Methods("GET", "OPTIONS").HandlerFunc(authHandler.Me)

	// Job endpoints
	apiV1.HandleFunc("/jobs", jobsHandler.GetJob).Methods("GET", "OPTIONS")
	apiV1.HandleFunc("/jobs/all", jobsHandler.ListJobs).Methods("GET", "OPTIONS")
	apiV1.HandleFunc("/statscharts", statsHandler.StatsCharts).Methods("GET", "OPTIONS")
	apiV1.HandleFunc("/eligibility/check", eligibilityHandler.Check).Methods("POST", "OPTIONS")

	return r
}
