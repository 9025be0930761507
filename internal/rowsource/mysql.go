package rowsource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"

	"github.com/Rana718/Forge/internal/metadata"
)

// MySQLSource reads rows over database/sql with the mysql driver.
type MySQLSource struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

// NewMySQLSource returns an unconnected mysql source.
func NewMySQLSource() *MySQLSource {
	return &MySQLSource{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (m *MySQLSource) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("mysql", url)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	m.db = db
	return nil
}

func (m *MySQLSource) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *MySQLSource) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MySQLSource) FetchRows(ctx context.Context, table metadata.Table, limit int) ([]map[string]interface{}, error) {
	query, args, err := buildSelect(m.qb, table, limit, quoteBacktick)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows from '%s': %w", table.Name, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func quoteBacktick(name string) string {
	return "`" + name + "`"
}
