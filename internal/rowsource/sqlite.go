package rowsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rana718/Forge/internal/metadata"
)

// SQLiteSource reads rows over database/sql with the sqlite3 driver.
type SQLiteSource struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

// NewSQLiteSource returns an unconnected sqlite source.
func NewSQLiteSource() *SQLiteSource {
	return &SQLiteSource{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *SQLiteSource) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteSource) FetchRows(ctx context.Context, table metadata.Table, limit int) ([]map[string]interface{}, error) {
	query, args, err := buildSelect(s.qb, table, limit, quoteANSI)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows from '%s': %w", table.Name, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func quoteANSI(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
