package daos

import "context"

// CreateTable creates a new table from the given column definitions.
// Definitions are validated and the statement is built before anything
// touches the engine; a name collision with an existing table comes back
// from the engine as an error.
func (db *Database) CreateTable(ctx context.Context, table string, defs []ColumnDef) error {
	query, err := BuildCreateTable(table, defs)
	if err != nil {
		return err
	}

	if _, err := db.execute(ctx, query); err != nil {
		return err
	}

	db.log.Info("table created", "database", db.name, "table", table)
	return nil
}

// DropTable removes a table. Dropping a table that does not exist is a
// no-op, not an error.
func (db *Database) DropTable(ctx context.Context, table string) error {
	query, err := BuildDropTable(table)
	if err != nil {
		return err
	}

	if _, err := db.execute(ctx, query); err != nil {
		return err
	}

	db.log.Info("table dropped", "database", db.name, "table", table)
	return nil
}
