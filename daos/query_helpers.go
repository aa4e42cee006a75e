package daos

import (
	"sort"
	"strings"
)

// buildWhere assembles the filter clause shared by the data, count, and
// insight queries. Filter columns are sanitized and must exist in the
// schema; both checks reject the whole operation before SQL runs.
func buildWhere(table string, schema []Column, filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	var args []any
	clause := ""

	for _, f := range filters {
		if err := ValidateColumnName(f.Column); err != nil {
			return "", nil, err
		}
		if !columnInSchema(schema, f.Column) {
			return "", nil, ColumnNotFoundErr(table, f.Column)
		}

		if clause != "" {
			clause += " AND "
		}

		switch val := f.Value.(type) {
		case nil:
			clause += quoteIdent(f.Column) + " IS NULL"
		case string:
			if val == "NULL" {
				clause += quoteIdent(f.Column) + " IS NULL"
			} else if strings.HasPrefix(val, "%") || strings.HasSuffix(val, "%") {
				clause += quoteIdent(f.Column) + " LIKE ?"
				args = append(args, val)
			} else {
				clause += quoteIdent(f.Column) + " = ?"
				args = append(args, val)
			}
		default:
			clause += quoteIdent(f.Column) + " = ?"
			args = append(args, val)
		}
	}

	return " WHERE " + clause, args, nil
}

// columnInSchema reports whether name matches a schema column exactly.
func columnInSchema(schema []Column, name string) bool {
	for _, col := range schema {
		if col.Name == name {
			return true
		}
	}
	return false
}

// sortedColumns returns a row's column names in sorted order so generated
// SQL is deterministic regardless of map iteration.
func sortedColumns(values Row) []string {
	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
