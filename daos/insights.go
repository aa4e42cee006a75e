package daos

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary holds the aggregates of one column over the rows matching a set
// of filters. The numeric aggregates are absent when no non-NULL values
// contributed to them.
type Summary struct {
	Column   string   `json:"column"`
	RowCount int64    `json:"row_count"`
	Sum      *float64 `json:"sum,omitempty"`
	Avg      *float64 `json:"avg,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// Summarize computes COUNT, SUM, AVG, MIN, and MAX of one column, reusing
// the same filter clause as table browsing. The column must exist in the
// table's schema; everything is validated before the single statement runs.
func (db *Database) Summarize(ctx context.Context, table, column string, filters []Filter) (*Summary, error) {
	if err := ValidateColumnName(column); err != nil {
		return nil, err
	}

	schema, err := db.DescribeTable(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(schema) == 0 {
		return nil, TableNotFoundErr(table)
	}
	if !columnInSchema(schema, column) {
		return nil, ColumnNotFoundErr(table, column)
	}

	where, args, err := buildWhere(table, schema, filters)
	if err != nil {
		return nil, err
	}

	c := quoteIdent(column)
	query := fmt.Sprintf("SELECT COUNT(*), SUM(%s), AVG(%s), MIN(%s), MAX(%s) FROM %s%s",
		c, c, c, c, quoteIdent(table), where)

	summary := Summary{Column: column}
	var sum, avg, min, max sql.NullFloat64
	err = db.conn.QueryRowContext(ctx, query, args...).
		Scan(&summary.RowCount, &sum, &avg, &min, &max)
	if err != nil {
		return nil, classifyEngineError(err)
	}

	if sum.Valid {
		summary.Sum = &sum.Float64
	}
	if avg.Valid {
		summary.Avg = &avg.Float64
	}
	if min.Valid {
		summary.Min = &min.Float64
	}
	if max.Valid {
		summary.Max = &max.Float64
	}

	return &summary, nil
}
