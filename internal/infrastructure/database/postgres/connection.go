// Package postgres manages the connection pool and schema migrations for the
// optional model store.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Connect builds a pgx connection pool from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "parsing database configuration")
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "creating connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "pinging database")
	}

	logger.Info("connected to postgres",
		logging.String("host", cfg.Host),
		logging.String("database", cfg.DBName),
		logging.Int("max_conns", cfg.MaxConns),
	)
	return pool, nil
}
