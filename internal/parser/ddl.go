// Package parser imports table definitions from SQL DDL text. It handles
// the common CREATE TABLE dialect shared by MySQL, Postgres and SQLite
// schema dumps; statements it cannot make sense of are skipped, never
// fatal.
package parser

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rana718/Forge/internal/metadata"
)

var (
	createTableRe  = regexp.MustCompile(`(?i)^\s*CREATE\s+TABLE`)
	tableNameRe    = regexp.MustCompile("(?i)CREATE\\s+TABLE\\s+(?:IF\\s+NOT\\s+EXISTS\\s+)?`?(\\w+)`?")
	tableBodyRe    = regexp.MustCompile(`(?i)CREATE\s+TABLE[^(]+\((.*)\)`)
	tableCommentRe = regexp.MustCompile(`(?i)COMMENT\s*=\s*['"]([^'"]+)['"]`)

	fieldNameRe = regexp.MustCompile("^`?(\\w+)`?")
	dataTypeRe  = regexp.MustCompile("(?i)^`?\\w+`?\\s+(\\w+)(?:\\s*\\(([^)]*)\\))?")
	quotedRe    = regexp.MustCompile(`['"]([^'"]*)['"]`)
	defaultRe   = regexp.MustCompile(`(?i)\bDEFAULT\s+(?:'([^']*)'|"([^"]*)"|([^\s,'"]+))`)
	commentRe   = regexp.MustCompile(`(?i)\bCOMMENT\s+(?:'([^']*)'|"([^"]*)")`)
	uniqueRe    = regexp.MustCompile(`(?i)\bUNIQUE\b`)
	refRe       = regexp.MustCompile("(?i)\\bREFERENCES\\s+`?(\\w+)`?\\s*\\(\\s*`?(\\w+)`?\\s*\\)")

	primaryKeyRe = regexp.MustCompile("(?i)PRIMARY\\s+KEY\\s*\\(\\s*`?(\\w+)`?")
	foreignKeyRe = regexp.MustCompile("(?i)FOREIGN\\s+KEY\\s*\\(\\s*`?(\\w+)`?\\s*\\)\\s*REFERENCES\\s+`?(\\w+)`?\\s*\\(\\s*`?(\\w+)`?\\s*\\)")
	uniqueKeyRe  = regexp.MustCompile("(?i)UNIQUE\\s*(?:KEY|INDEX)?\\s*(?:`?\\w+`?\\s*)?\\(\\s*`?(\\w+)`?")
	indexRe      = regexp.MustCompile("(?i)\\b(?:INDEX|KEY)\\s*(?:`?\\w+`?\\s*)?\\(\\s*`?(\\w+)`?")
)

var sqlTypes = map[string]metadata.FieldType{
	"INT":       metadata.TypeInteger,
	"INTEGER":   metadata.TypeInteger,
	"TINYINT":   metadata.TypeInteger,
	"SMALLINT":  metadata.TypeInteger,
	"MEDIUMINT": metadata.TypeInteger,
	"BIGINT":    metadata.TypeInteger,
	"SERIAL":    metadata.TypeInteger,
	"BIGSERIAL": metadata.TypeInteger,
	"YEAR":      metadata.TypeInteger,

	"DECIMAL": metadata.TypeDecimal,
	"NUMERIC": metadata.TypeDecimal,
	"FLOAT":   metadata.TypeDecimal,
	"DOUBLE":  metadata.TypeDecimal,
	"REAL":    metadata.TypeDecimal,

	"CHAR":       metadata.TypeString,
	"VARCHAR":    metadata.TypeString,
	"TEXT":       metadata.TypeString,
	"TINYTEXT":   metadata.TypeString,
	"MEDIUMTEXT": metadata.TypeString,
	"LONGTEXT":   metadata.TypeString,
	"NCHAR":      metadata.TypeString,
	"NVARCHAR":   metadata.TypeString,
	"TIME":       metadata.TypeString,

	"DATE":      metadata.TypeDate,
	"DATETIME":  metadata.TypeDatetime,
	"TIMESTAMP": metadata.TypeDatetime,

	"BOOLEAN": metadata.TypeBoolean,
	"BOOL":    metadata.TypeBoolean,
	"BIT":     metadata.TypeBoolean,

	"ENUM": metadata.TypeEnum,
	"SET":  metadata.TypeEnum,
}

// ParseDDL extracts every CREATE TABLE statement from a script. Statements
// that are not CREATE TABLE, or that fail to parse, are skipped.
func ParseDDL(sql string) []metadata.Table {
	sql = blockCommentRe.ReplaceAllString(sql, "")

	var tables []metadata.Table
	for _, stmt := range splitStatements(sql) {
		if !createTableRe.MatchString(stmt) {
			continue
		}
		table, err := ParseTable(stmt)
		if err != nil {
			continue
		}
		tables = append(tables, table)
	}
	return tables
}

// ParseFile reads a DDL script and returns the tables it defines.
func ParseFile(path string) ([]metadata.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read DDL file: %w", err)
	}
	return ParseDDL(string(content)), nil
}

// ParseTable parses a single CREATE TABLE statement.
func ParseTable(ddl string) (metadata.Table, error) {
	ddl = clean(ddl)

	nameMatch := tableNameRe.FindStringSubmatch(ddl)
	if nameMatch == nil {
		return metadata.Table{}, fmt.Errorf("failed to parse table name from DDL")
	}
	bodyMatch := tableBodyRe.FindStringSubmatch(ddl)
	if bodyMatch == nil {
		return metadata.Table{}, fmt.Errorf("failed to parse column definitions for table '%s'", nameMatch[1])
	}

	table := metadata.Table{Name: nameMatch[1]}
	if m := tableCommentRe.FindStringSubmatch(ddl); m != nil {
		table.Description = m[1]
	}

	var constraints []string
	for _, raw := range splitDefinitions(bodyMatch[1]) {
		def := strings.TrimSpace(raw)
		if def == "" {
			continue
		}
		if isConstraint(def) {
			constraints = append(constraints, def)
			continue
		}
		field, ok := parseFieldDef(def)
		if !ok {
			continue
		}
		if table.PrimaryKey == "" && strings.Contains(strings.ToUpper(def), "PRIMARY KEY") {
			table.PrimaryKey = field.Name
		}
		table.Fields = append(table.Fields, field)
	}
	if len(table.Fields) == 0 {
		return metadata.Table{}, fmt.Errorf("no column definitions found for table '%s'", table.Name)
	}

	for _, def := range constraints {
		applyConstraint(&table, def)
	}
	return table, nil
}

func isConstraint(def string) bool {
	upper := strings.ToUpper(def)
	for _, prefix := range []string{"PRIMARY", "FOREIGN", "UNIQUE", "INDEX", "KEY", "CONSTRAINT", "CHECK"} {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

func applyConstraint(table *metadata.Table, def string) {
	switch {
	case foreignKeyRe.MatchString(def):
		m := foreignKeyRe.FindStringSubmatch(def)
		for i := range table.Fields {
			if table.Fields[i].Name == m[1] {
				table.Fields[i].RefTable = m[2]
				table.Fields[i].RefField = m[3]
			}
		}
	case primaryKeyRe.MatchString(def):
		// An inline PRIMARY KEY on a column wins over the table-level one.
		if table.PrimaryKey == "" {
			table.PrimaryKey = primaryKeyRe.FindStringSubmatch(def)[1]
		}
	case uniqueKeyRe.MatchString(def):
		col := uniqueKeyRe.FindStringSubmatch(def)[1]
		for i := range table.Fields {
			if table.Fields[i].Name == col {
				table.Fields[i].Unique = true
			}
		}
	case indexRe.MatchString(def):
		col := indexRe.FindStringSubmatch(def)[1]
		if table.HasField(col) {
			table.Indexes = append(table.Indexes, col)
		}
	}
}

func parseFieldDef(def string) (metadata.Field, bool) {
	nameMatch := fieldNameRe.FindStringSubmatch(def)
	if nameMatch == nil {
		return metadata.Field{}, false
	}
	typeMatch := dataTypeRe.FindStringSubmatch(def)
	if typeMatch == nil {
		return metadata.Field{}, false
	}
	rawType := strings.ToUpper(typeMatch[1])
	params := strings.TrimSpace(typeMatch[2])

	field := metadata.Field{
		Name: nameMatch[1],
		Type: mapSQLType(rawType, params),
	}

	upper := strings.ToUpper(def)
	if strings.Contains(upper, "NOT NULL") ||
		strings.Contains(upper, "PRIMARY KEY") ||
		strings.HasSuffix(rawType, "SERIAL") {
		field.Required = true
	}
	if uniqueRe.MatchString(def) {
		field.Unique = true
	}

	switch {
	case field.Type == metadata.TypeEnum:
		for _, m := range quotedRe.FindAllStringSubmatch(params, -1) {
			field.EnumValues = append(field.EnumValues, m[1])
		}
	case strings.Contains(params, ","):
		// DECIMAL(p,s): the scale is the number of fractional digits.
		parts := strings.SplitN(params, ",", 2)
		if scale, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			field.Precision = metadata.Int(scale)
		}
	case params != "" && field.Type == metadata.TypeString:
		if length, err := strconv.Atoi(params); err == nil {
			field.MaxLength = length
		}
	}

	if m := refRe.FindStringSubmatch(def); m != nil {
		field.RefTable = m[1]
		field.RefField = m[2]
	}
	if m := commentRe.FindStringSubmatch(def); m != nil {
		field.Description = m[1] + m[2]
	}
	field.Default = parseDefault(def)

	return field, true
}

func mapSQLType(rawType, params string) metadata.FieldType {
	if rawType == "TINYINT" && params == "1" {
		return metadata.TypeBoolean
	}
	if t, ok := sqlTypes[rawType]; ok {
		return t
	}
	return metadata.TypeString
}

func parseDefault(def string) interface{} {
	m := defaultRe.FindStringSubmatch(def)
	if m == nil {
		return nil
	}
	if bare := m[3]; bare != "" {
		switch strings.ToUpper(bare) {
		case "NULL", "CURRENT_TIMESTAMP", "NOW()":
			return nil
		}
		if n, err := strconv.ParseInt(bare, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(bare, 64); err == nil {
			return f
		}
		return bare
	}
	return m[1] + m[2]
}
