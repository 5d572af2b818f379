// Package sqlite writes the cleaned workspace into a SQLite database file,
// one table per workspace table, with column affinities derived from the
// inferred schema and foreign keys derived from detected relationships.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"intake/internal/dataset"
	"intake/internal/schema"
)

// insertBatch caps rows per INSERT statement. SQLite limits bound
// parameters per statement; 200 rows stays well under it for wide tables.
const insertBatch = 200

// Write creates (or overwrites tables in) the database at path and loads
// every workspace table into it. Each table is written in its own
// transaction so a failure leaves previously written tables intact.
//
// Tables are created with DROP TABLE IF EXISTS first, so re-exporting to the
// same file replaces stale data.
func Write(ctx context.Context, path string, tables []*dataset.Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sqlite export: open %s: %w", path, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite export: ping %s: %w", path, err)
	}

	for _, t := range tables {
		if err := writeTable(ctx, db, t); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(ctx context.Context, db *sql.DB, t *dataset.Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite export %s: begin: %w", t.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+sqlIdent(t.Name)); err != nil {
		return fmt.Errorf("sqlite export %s: drop: %w", t.Name, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(t.Schema)); err != nil {
		return fmt.Errorf("sqlite export %s: create: %w", t.Name, err)
	}
	if err := insertRows(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite export %s: commit: %w", t.Name, err)
	}
	return nil
}

// createTableSQL builds the DDL for one inferred schema. Column affinities:
// number columns get REAL, booleans INTEGER, everything else TEXT (ids stay
// TEXT; they are opaque strings, not rowids). Foreign keys come from the
// detected relationships; SQLite only enforces them when the connection
// enables foreign_keys, so they are documentation-grade here.
func createTableSQL(t schema.Table) string {
	var parts []string
	for _, c := range t.Columns {
		def := sqlIdent(c.Name) + " " + affinity(c.Type)
		if c.Required {
			def += " NOT NULL"
		}
		if c.Name == t.PrimaryKey {
			def += " PRIMARY KEY"
		} else if c.Unique {
			def += " UNIQUE"
		}
		parts = append(parts, def)
	}
	for _, rel := range t.Relationships {
		parts = append(parts, fmt.Sprintf(
			"FOREIGN KEY (%s) REFERENCES %s(%s)",
			sqlIdent(rel.Column), sqlIdent(rel.Table), sqlIdent(rel.Column),
		))
	}
	return "CREATE TABLE " + sqlIdent(t.Name) + " (\n  " + strings.Join(parts, ",\n  ") + "\n)"
}

func affinity(t schema.FieldType) string {
	switch t {
	case schema.TypeNumber:
		return "REAL"
	case schema.TypeBoolean:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func insertRows(ctx context.Context, tx *sql.Tx, t *dataset.Table) error {
	cols := t.Schema.Columns
	if len(cols) == 0 || len(t.Rows) == 0 {
		return nil
	}

	idents := make([]string, len(cols))
	for i, c := range cols {
		idents[i] = sqlIdent(c.Name)
	}
	rowPH := "(" + strings.TrimRight(strings.Repeat("?,", len(cols)), ",") + ")"
	prefix := "INSERT INTO " + sqlIdent(t.Schema.Name) + " (" + strings.Join(idents, ", ") + ") VALUES "

	for start := 0; start < len(t.Rows); start += insertBatch {
		end := start + insertBatch
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		batch := t.Rows[start:end]

		ph := make([]string, len(batch))
		args := make([]any, 0, len(batch)*len(cols))
		for i, row := range batch {
			ph[i] = rowPH
			for ci, c := range cols {
				args = append(args, bindValue(row[ci], c))
			}
		}

		if _, err := tx.ExecContext(ctx, prefix+strings.Join(ph, ", "), args...); err != nil {
			return fmt.Errorf("sqlite export %s: insert rows %d..%d: %w", t.Name, start, end-1, err)
		}
	}
	return nil
}

// bindValue converts a normalized cell into its SQLite value. Empty cells
// become NULL; numbers and booleans bind as their native types so the column
// affinity holds; everything else binds as the normalized string.
func bindValue(v string, c schema.Column) any {
	if v == "" {
		return nil
	}
	switch c.Type {
	case schema.TypeNumber:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return v
	case schema.TypeBoolean:
		if v == "true" {
			return 1
		}
		return 0
	default:
		return v
	}
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
