package daos

import (
	"context"
	"fmt"
)

// Page is the result of one browse request: the rows of the requested
// page plus the total number of rows matching the filters. The total is
// computed by a separate count statement so it stays page-independent.
type Page struct {
	Rows          []Row `json:"rows"`
	TotalRowCount int64 `json:"total_row_count"`
}

// FetchPage reads one page of rows from table, applying the filters,
// ordering, and pagination in opts. Both statements are built and
// validated up front, so an invalid sort or filter rejects the request
// before anything touches the engine.
func (db *Database) FetchPage(ctx context.Context, table string, opts QueryOptions) (*Page, error) {
	schema, err := db.DescribeTable(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(schema) == 0 {
		return nil, TableNotFoundErr(table)
	}

	countQuery, countArgs, err := BuildCount(table, schema, opts.Filters)
	if err != nil {
		return nil, err
	}
	dataQuery, dataArgs, err := BuildSelect(table, schema, opts)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := db.conn.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, classifyEngineError(err)
	}

	rows, err := db.queryRows(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, err
	}

	return &Page{Rows: rows, TotalRowCount: total}, nil
}

// InsertRow inserts values into table and returns the rowid the engine
// assigned. Column names are sanitized but not checked against the
// table schema; unknown columns surface as engine errors.
func (db *Database) InsertRow(ctx context.Context, table string, values Row) (int64, error) {
	query, args, err := BuildInsert(table, values)
	if err != nil {
		return 0, err
	}

	result, err := db.execute(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading last insert id: %w", err)
	}
	return id, nil
}

// UpdateRow updates the row of table whose keyColumn equals keyValue
// and returns the number of rows changed. Zero is not an error: the row
// may not exist, or the update may have written identical values.
func (db *Database) UpdateRow(ctx context.Context, table, keyColumn string, keyValue any, values Row) (int64, error) {
	query, args, err := BuildUpdate(table, keyColumn, keyValue, values)
	if err != nil {
		return 0, err
	}

	result, err := db.execute(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}

// DeleteRow deletes the row of table whose keyColumn equals keyValue
// and returns the number of rows removed. Deleting an absent row
// reports zero and succeeds.
func (db *Database) DeleteRow(ctx context.Context, table, keyColumn string, keyValue any) (int64, error) {
	query, args, err := BuildDelete(table, keyColumn, keyValue)
	if err != nil {
		return 0, err
	}

	result, err := db.execute(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}
