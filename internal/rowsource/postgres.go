package rowsource

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/Rana718/Forge/internal/metadata"
)

// PostgresSource reads rows over a pgx connection pool.
type PostgresSource struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

// NewPostgresSource returns an unconnected postgres source.
func NewPostgresSource() *PostgresSource {
	return &PostgresSource{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *PostgresSource) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *PostgresSource) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *PostgresSource) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresSource) FetchRows(ctx context.Context, table metadata.Table, limit int) ([]map[string]interface{}, error) {
	query, args, err := buildSelect(p.qb, table, limit, pq.QuoteIdentifier)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows from '%s': %w", table.Name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()

	var result []map[string]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(fields))
		for i, fd := range fields {
			row[string(fd.Name)] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
