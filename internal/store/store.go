// Package store opens the configured backend and exposes it through the
// repository interfaces.
package store

import (
	"context"
	"fmt"

	dbfs "github.com/garnizeh/jobhunt/db"
	"github.com/garnizeh/jobhunt/internal/config"
	"github.com/garnizeh/jobhunt/internal/db"
	"github.com/garnizeh/jobhunt/internal/mongodb"
	repomongo "github.com/garnizeh/jobhunt/internal/repository/mongo"
	"github.com/garnizeh/jobhunt/internal/repository/sqlite"
	"github.com/garnizeh/jobhunt/pkg/repository"
	"go.uber.org/zap"
)

type Store struct {
	Jobs  repository.JobRepo
	Stats repository.StatsRepo
	Users repository.UserRepo

	driver string
	ping   func(context.Context) error
	init   func(context.Context) error
	close  func(context.Context) error
}

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case config.StoreMongo:
		c, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.Timeout, logger)
		if err != nil {
			return nil, err
		}
		repo := repomongo.New(c, logger)
		return &Store{
			Jobs: repo, Stats: repo, Users: repo,
			driver: cfg.Driver,
			ping:   c.Ping,
			init:   c.EnsureIndexes,
			close:  c.Close,
		}, nil

	case config.StoreSQLite:
		conn, err := db.New(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		repo := sqlite.New(conn, logger)
		return &Store{
			Jobs: repo, Stats: repo, Users: repo,
			driver: cfg.Driver,
			ping:   conn.Ping,
			init: func(ctx context.Context) error {
				return db.Migrate(ctx, conn, dbfs.Migrations)
			},
			close: func(context.Context) error { return conn.Close() },
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func (s *Store) Driver() string { return s.driver }

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Init prepares the schema: SQLite migrations or Mongo indexes. It is
// idempotent.
func (s *Store) Init(ctx context.Context) error {
	if err := s.init(ctx); err != nil {
		return fmt.Errorf("init %s store: %w", s.driver, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }
