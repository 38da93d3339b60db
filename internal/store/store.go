// Package store opens the configured database and assembles the repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"servicofacil/internal/config"
	"servicofacil/internal/db"
	"servicofacil/internal/migrate"
	accountrepo "servicofacil/internal/repository/account"
	clientrepo "servicofacil/internal/repository/client"
	orderrepo "servicofacil/internal/repository/order"
	itemrepo "servicofacil/internal/repository/serviceitem"
)

// Store bundles the repositories of one database.
type Store struct {
	Driver   string
	Clients  clientrepo.Repository
	Items    itemrepo.Repository
	Orders   orderrepo.Repository
	Accounts accountrepo.Repository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func()
}

// Open connects using cfg.DBDriver. Migrations are not applied; call Migrate.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Store{
			Driver:   config.DriverPostgres,
			Clients:  clientrepo.NewPostgres(pool, logger),
			Items:    itemrepo.NewPostgres(pool, logger),
			Orders:   orderrepo.NewPostgres(pool, logger),
			Accounts: accountrepo.NewPostgres(pool, logger),
			ping:     pool.Ping,
			migrate:  func(ctx context.Context) error { return migrate.Apply(ctx, pool) },
			close:    pool.Close,
		}, nil
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		s := NewSQLite(sqlDB, logger)
		s.migrate = func(ctx context.Context) error { return migrate.ApplySQLite(ctx, cfg.SQLitePath) }
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
}

// NewSQLite wraps an already migrated sqlite handle.
func NewSQLite(sqlDB *sql.DB, logger *log.Logger) *Store {
	return &Store{
		Driver:   config.DriverSQLite,
		Clients:  clientrepo.NewSQLite(sqlDB, logger),
		Items:    itemrepo.NewSQLite(sqlDB, logger),
		Orders:   orderrepo.NewSQLite(sqlDB, logger),
		Accounts: accountrepo.NewSQLite(sqlDB, logger),
		ping:     sqlDB.PingContext,
		close:    func() { sqlDB.Close() },
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
