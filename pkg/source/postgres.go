package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/errors"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/interval"
)

// DefaultPostgresTable is queried when PostgresConfig.Table is empty.
const DefaultPostgresTable = "loads"

// PostgresConfig locates a table of load rows. The table has the columns
// start_at, end_at, buyer, table_name and row_count.
type PostgresConfig struct {
	DSN   string `toml:"dsn"`
	Table string `toml:"table"`

	MaxConns int32 `toml:"max_conns"`
}

// Postgres reads records from a PostgreSQL table.
type Postgres struct {
	cfg    PostgresConfig
	window Window
	query  string
}

// NewPostgres returns a Postgres source. It does not connect until Load.
func NewPostgres(cfg PostgresConfig, window Window) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "postgres dsn is required")
	}
	if cfg.Table == "" {
		cfg.Table = DefaultPostgresTable
	}
	return &Postgres{cfg: cfg, window: window, query: selectQuery(cfg.Table)}, nil
}

// Name implements Source.
func (p *Postgres) Name() string {
	return "postgres:" + p.cfg.Table
}

// Load implements Source.
func (p *Postgres) Load(ctx context.Context) ([]interval.Record, error) {
	pool, err := connect(ctx, p.cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect %s", p.Name())
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, p.query, bound(p.window.From), bound(p.window.To))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "query %s", p.Name())
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (interval.Record, error) {
		var r interval.Record
		err := row.Scan(&r.Start, &r.End, &r.Buyer, &r.Table, &r.Rows)
		r.Start, r.End = r.Start.UTC(), r.End.UTC()
		return r, err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", p.Name())
	}
	return validated(p, records)
}

func connect(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// selectQuery builds the load query for table, which may be schema
// qualified. NULL window bounds are open.
func selectQuery(table string) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return "SELECT start_at, end_at, buyer, table_name, row_count FROM " + ident +
		" WHERE ($1::timestamptz IS NULL OR start_at >= $1)" +
		" AND ($2::timestamptz IS NULL OR start_at < $2)" +
		" ORDER BY start_at"
}

var _ Source = (*Postgres)(nil)
