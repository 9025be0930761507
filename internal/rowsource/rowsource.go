// Package rowsource reads existing rows for declared tables out of postgres,
// mysql or sqlite, so incremental generation can continue from
// production-shaped data. One source per provider sits behind a common
// interface. Table metadata always comes from the caller; sources never
// discover schemas from the server.
package rowsource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/Forge/internal/generator"
	"github.com/Rana718/Forge/internal/metadata"
)

// Source is a read-only connection to a database holding rows of declared
// tables.
type Source interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// FetchRows reads up to limit rows of the declared table, newest first
	// when the table names a primary key. limit <= 0 means no limit.
	FetchRows(ctx context.Context, table metadata.Table, limit int) ([]map[string]interface{}, error)
}

// New returns the source for a provider name.
func New(provider string) (Source, error) {
	switch provider {
	case "postgresql", "postgres":
		return NewPostgresSource(), nil
	case "mysql":
		return NewMySQLSource(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteSource(), nil
	default:
		return nil, fmt.Errorf("unsupported database provider '%s'", provider)
	}
}

// Profile summarizes fetched rows field by field, in the shape incremental
// generation consumes.
func Profile(table metadata.Table, rows []map[string]interface{}) map[string]generator.FieldProfile {
	return generator.ProfileRows(rows, table)
}

// buildSelect assembles the per-dialect row query: the table's declared
// fields, newest rows first, capped at limit.
func buildSelect(qb squirrel.StatementBuilderType, table metadata.Table, limit int, quote func(string) string) (string, []interface{}, error) {
	if len(table.Fields) == 0 {
		return "", nil, fmt.Errorf("table '%s' declares no fields", table.Name)
	}

	columns := make([]string, 0, len(table.Fields))
	for _, f := range table.Fields {
		columns = append(columns, quote(f.Name))
	}

	query := qb.Select(columns...).From(quote(table.Name))
	if table.PrimaryKey != "" {
		query = query.OrderBy(quote(table.PrimaryKey) + " DESC")
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	return query.ToSql()
}

// scanRows walks a database/sql result set into generic row maps. The mysql
// and sqlite drivers hand text columns back as []byte, so those become
// strings.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
