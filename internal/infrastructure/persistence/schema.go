package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fms/backend/internal/domain/resource"
	"github.com/fms/backend/internal/infrastructure/config"
)

// EnsureSchema creates the tables behind defs and the sequence table when
// they do not exist. Existing tables are left untouched; production schema
// changes go through the SQL migrations.
func EnsureSchema(ctx context.Context, db *Database, defs []*resource.Definition) error {
	stmts := []string{sequenceTableDDL()}
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Table] {
			continue
		}
		seen[def.Table] = true
		stmts = append(stmts, TableDDL(def, db.Driver))
	}

	tx := db.DB.WithContext(ctx)
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func sequenceTableDDL() string {
	return `CREATE TABLE IF NOT EXISTS ` + SequenceTable + ` (
    seq_scope VARCHAR(64) NOT NULL,
    prefix VARCHAR(20) NOT NULL,
    period VARCHAR(10) NOT NULL,
    last_value BIGINT NOT NULL DEFAULT 0,
    updated_at TIMESTAMP,
    PRIMARY KEY (seq_scope, prefix, period)
)`
}

// TableDDL renders the CREATE TABLE statement for one resource table
func TableDDL(def *resource.Definition, driver string) string {
	id := "id BIGSERIAL PRIMARY KEY"
	if driver == config.DriverSQLite {
		id = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	cols := []string{id}
	if def.Numbered() {
		cols = append(cols, def.NumberColumn+" VARCHAR(30) NOT NULL UNIQUE")
	}
	for _, f := range def.Fields {
		col := f.Column + " " + columnType(f)
		if f.Unique {
			col += " UNIQUE"
		}
		cols = append(cols, col)
	}

	fixed := make([]string, 0, len(def.Fixed))
	for c := range def.Fixed {
		fixed = append(fixed, c)
	}
	sort.Strings(fixed)
	for _, c := range fixed {
		cols = append(cols, c+" VARCHAR(20) NOT NULL")
	}

	cols = append(cols,
		resource.ColumnCreatedBy+" VARCHAR(50)",
		resource.ColumnCreatedAt+" TIMESTAMP",
		resource.ColumnUpdatedBy+" VARCHAR(50)",
		resource.ColumnUpdatedAt+" TIMESTAMP",
	)
	if def.SoftDeletes() {
		cols = append(cols, resource.ColumnDeleted+" CHAR(1) NOT NULL DEFAULT 'N'")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", def.Table, strings.Join(cols, ",\n    "))
}

func columnType(f resource.Field) string {
	switch f.Kind {
	case resource.String:
		if f.Size > 0 {
			return fmt.Sprintf("VARCHAR(%d)", f.Size)
		}
		if f.Size < 0 {
			return "TEXT"
		}
		return "VARCHAR(255)"
	case resource.Text:
		return "TEXT"
	case resource.Int, resource.Ref:
		return "BIGINT"
	case resource.Decimal:
		return "NUMERIC(18,4)"
	case resource.Date:
		return "DATE"
	case resource.DateTime:
		return "TIMESTAMP"
	case resource.Flag:
		return "CHAR(1)"
	default:
		return "TEXT"
	}
}
