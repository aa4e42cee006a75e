package daos

import (
	"fmt"
	"strings"
)

// Filter is one WHERE condition against a column. A nil value (or the
// literal string "NULL") matches NULL rows; a string value carrying a
// leading or trailing % wildcard becomes a LIKE match with the raw value
// bound unescaped; anything else is an equality match. Filters are a slice
// so clauses are emitted in the order the caller gave them.
type Filter struct {
	Column string
	Value  any
}

// QueryOptions shape one page of a table browse.
type QueryOptions struct {
	Page          int    // 1-based page number, always positive
	Limit         int    // rows per page, always positive
	SortColumn    string // optional; must name a schema column
	SortDirection string // "desc" (any case) sorts descending, all else ascending
	Filters       []Filter
}

// ColumnDef describes one column of a table to be created.
type ColumnDef struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key"`
	NotNull    bool   `json:"not_null"`
}

// BuildSelect emits the data query for one page: filters, then ordering,
// then pagination. Everything is validated against the schema before any
// SQL text is assembled.
func BuildSelect(table string, schema []Column, opts QueryOptions) (string, []any, error) {
	if err := ValidateTableName(table); err != nil {
		return "", nil, err
	}

	where, args, err := buildWhere(table, schema, opts.Filters)
	if err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s%s", quoteIdent(table), where)

	if opts.SortColumn != "" {
		if !columnInSchema(schema, opts.SortColumn) {
			return "", nil, InvalidSortColumnErr(opts.SortColumn)
		}
		dir := "ASC"
		if strings.EqualFold(opts.SortDirection, SortDesc) {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", quoteIdent(opts.SortColumn), dir)
	}

	query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	if offset := (opts.Page - 1) * opts.Limit; offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	return query, args, nil
}

// BuildCount emits the companion count query: the same filter clause with
// no ordering or pagination, so the total is independent of the page.
func BuildCount(table string, schema []Column, filters []Filter) (string, []any, error) {
	if err := ValidateTableName(table); err != nil {
		return "", nil, err
	}

	where, args, err := buildWhere(table, schema, filters)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quoteIdent(table), where), args, nil
}

// BuildInsert emits an insert for the given column values. Columns come
// from the mapping's keys in sorted order; they are sanitized but not
// checked against schema, so an unknown column surfaces as an engine error.
func BuildInsert(table string, values Row) (string, []any, error) {
	if err := ValidateTableName(table); err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("%w: insert requires at least one column", ErrEmptyPayload)
	}

	cols := sortedColumns(values)
	args := make([]any, 0, len(cols))
	columns := ""
	placeholders := ""

	for _, col := range cols {
		if err := ValidateColumnName(col); err != nil {
			return "", nil, err
		}
		args = append(args, values[col])
		columns += quoteIdent(col) + ", "
		placeholders += "?, "
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), columns[:len(columns)-2], placeholders[:len(placeholders)-2])

	return query, args, nil
}

// BuildUpdate emits an update of one row identified by keyColumn = keyValue.
// The key column is silently dropped from the SET list when it appears in
// values: key values are immutable through this path. Dropping it may empty
// the payload, which is rejected the same as an empty input.
func BuildUpdate(table, keyColumn string, keyValue any, values Row) (string, []any, error) {
	if err := ValidateTableName(table); err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("%w: update requires at least one column", ErrEmptyPayload)
	}
	if keyColumn == "" || keyValue == nil {
		return "", nil, fmt.Errorf("%w: update needs a key column and value", ErrMissingKey)
	}
	if err := ValidateColumnName(keyColumn); err != nil {
		return "", nil, err
	}

	cols := sortedColumns(values)
	var args []any
	set := ""

	for _, col := range cols {
		if col == keyColumn {
			continue
		}
		if err := ValidateColumnName(col); err != nil {
			return "", nil, err
		}
		set += fmt.Sprintf("%s = ?, ", quoteIdent(col))
		args = append(args, values[col])
	}

	if set == "" {
		return "", nil, fmt.Errorf("%w: no updatable columns besides the key", ErrEmptyPayload)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quoteIdent(table), set[:len(set)-2], quoteIdent(keyColumn))
	args = append(args, keyValue)

	return query, args, nil
}

// BuildDelete emits a delete of one row identified by keyColumn = keyValue.
func BuildDelete(table, keyColumn string, keyValue any) (string, []any, error) {
	if err := ValidateTableName(table); err != nil {
		return "", nil, err
	}
	if keyColumn == "" || keyValue == nil {
		return "", nil, fmt.Errorf("%w: delete needs a key column and value", ErrMissingKey)
	}
	if err := ValidateColumnName(keyColumn); err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quoteIdent(table), quoteIdent(keyColumn))
	return query, []any{keyValue}, nil
}

// BuildCreateTable emits a CREATE TABLE from column definitions, in the
// order given. One primary-key column gets an inline PRIMARY KEY; several
// get a trailing composite clause, with NOT NULL forced onto every member
// because the engine does not imply it for composite keys.
func BuildCreateTable(table string, defs []ColumnDef) (string, error) {
	if err := ValidateTableName(table); err != nil {
		return "", err
	}
	if len(defs) == 0 {
		return "", fmt.Errorf("%w: create table requires at least one column", ErrEmptyPayload)
	}

	pkCount := 0
	for _, def := range defs {
		if def.PrimaryKey {
			pkCount++
		}
	}

	query := fmt.Sprintf("CREATE TABLE %s (", quoteIdent(table))

	for _, def := range defs {
		if err := ValidateColumnName(def.Name); err != nil {
			return "", err
		}
		colType := mapColType(def.Type)
		if colType == "" {
			return "", InvalidTypeErr(def.Name, def.Type)
		}

		query += fmt.Sprintf("%s %s", quoteIdent(def.Name), colType)
		if def.PrimaryKey && pkCount == 1 {
			query += " PRIMARY KEY"
		}
		if def.NotNull || (def.PrimaryKey && pkCount > 1) {
			query += " NOT NULL"
		}
		query += ", "
	}

	if pkCount > 1 {
		query += "PRIMARY KEY ("
		for _, def := range defs {
			if def.PrimaryKey {
				query += quoteIdent(def.Name) + ", "
			}
		}
		query = query[:len(query)-2] + "), "
	}

	return query[:len(query)-2] + ")", nil
}

// BuildDropTable emits an idempotent drop.
func BuildDropTable(table string) (string, error) {
	if err := ValidateTableName(table); err != nil {
		return "", err
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table)), nil
}
