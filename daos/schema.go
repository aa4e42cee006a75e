package daos

import (
	"context"
)

// Column describes one table column as the engine reports it: the raw
// declared type string, nullability, and primary-key membership.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// ListTables returns the names of all user tables, sorted. Internal engine
// tables (sqlite_*) are excluded.
func (db *Database) ListTables(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name ASC;
	`)
	if err != nil {
		return nil, classifyEngineError(err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classifyEngineError(err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyEngineError(err)
	}
	return tables, nil
}

// DescribeTable reads the column metadata for one table, fresh on every
// call so concurrent schema changes are always reflected. A table the
// engine does not know yields an EMPTY slice, not an error; callers that
// need to distinguish that from a zero-column table use TableExists.
func (db *Database) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, type, "notnull", pk
		FROM pragma_table_info(?)
		ORDER BY cid ASC;
	`, table)
	if err != nil {
		return nil, classifyEngineError(err)
	}
	defer rows.Close()

	cols := []Column{}
	for rows.Next() {
		var c Column
		var notNull, pk int
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &pk); err != nil {
			return nil, classifyEngineError(err)
		}
		c.NotNull = notNull != 0
		// pk is the 1-based position of the column within the primary key,
		// zero when it is not part of one
		c.PrimaryKey = pk > 0
		cols = append(cols, c)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyEngineError(err)
	}
	return cols, nil
}

// TableExists reports whether a table is present in the database.
func (db *Database) TableExists(ctx context.Context, table string) (bool, error) {
	if err := ValidateTableName(table); err != nil {
		return false, err
	}

	var n int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?;
	`, table).Scan(&n)
	if err != nil {
		return false, classifyEngineError(err)
	}
	return n > 0, nil
}

// PrimaryKey resolves the single identifying column of a schema. The second
// return is false when zero or multiple columns carry the primary-key flag:
// row-identifier operations need exactly one, and composite keys are
// rejected rather than silently mismatched.
func PrimaryKey(schema []Column) (Column, bool) {
	var pk Column
	count := 0
	for _, col := range schema {
		if col.PrimaryKey {
			pk = col
			count++
		}
	}
	if count != 1 {
		return Column{}, false
	}
	return pk, true
}
