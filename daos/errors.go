// Package daos implements the generic table access layer: it opens one
// database handle per logical operation, introspects schema through the
// engine's own metadata, and builds parameterized SQL for arbitrary tables.
package daos

import (
	"errors"
	"fmt"
	"strings"
)

// MaxIdentifierLength bounds table and column names accepted for SQL text.
const MaxIdentifierLength = 128

// Sentinel errors for the access layer's failure taxonomy. Validation
// errors are produced before any statement executes; constraint and engine
// errors come out of classifyEngineError at the statement boundary.
var (
	ErrDatabaseNotFound    = errors.New("database not found")
	ErrDatabaseExists      = errors.New("database already exists")
	ErrInvalidDatabaseName = errors.New("invalid database name")
	ErrTableNotFound       = errors.New("table not found")
	ErrColumnNotFound      = errors.New("column not found in table")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrEmptyIdentifier     = errors.New("identifier cannot be empty")
	ErrIdentifierTooLong   = errors.New("identifier exceeds maximum length")
	ErrInvalidCharacter    = errors.New("identifier contains invalid characters")
	ErrInvalidSortColumn   = errors.New("sort column not in table schema")
	ErrInvalidColumnType   = errors.New("invalid column type")
	ErrEmptyPayload        = errors.New("no column values provided")
	ErrMissingKey          = errors.New("missing row key criterion")
	ErrInvalidKeyValue     = errors.New("invalid row key value")
	ErrNoUsablePrimaryKey  = errors.New("table does not have a single primary key column")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrNotNullViolation    = errors.New("not null constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	ErrEngine              = errors.New("engine error")
)

// DatabaseNotFoundErr returns an error indicating a database file was not found.
func DatabaseNotFoundErr(name string) error {
	return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
}

// TableNotFoundErr returns an error indicating a table was not found.
func TableNotFoundErr(table string) error {
	return fmt.Errorf("%w: %s", ErrTableNotFound, table)
}

// ColumnNotFoundErr returns an error indicating a column was not found.
func ColumnNotFoundErr(table, column string) error {
	return fmt.Errorf("%w: %s in table %s", ErrColumnNotFound, column, table)
}

// InvalidSortColumnErr returns an error indicating a sort target missing from schema.
func InvalidSortColumnErr(column string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSortColumn, column)
}

// InvalidTypeErr returns an error indicating an invalid column type was specified.
func InvalidTypeErr(column, typeName string) error {
	return fmt.Errorf("%w: type %s for column %s", ErrInvalidColumnType, typeName, column)
}

// ValidateIdentifier validates a table or column name destined for SQL text.
// Names are restricted to [A-Za-z0-9_]+; values never pass through here
// because they always bind as parameters.
func ValidateIdentifier(name string) error {
	if name == "" {
		return ErrEmptyIdentifier
	}
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrIdentifierTooLong, len(name), MaxIdentifierLength)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, r, i)
		}
	}
	return nil
}

// ValidateTableName validates a table name.
func ValidateTableName(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return fmt.Errorf("invalid table name %q: %w", name, err)
	}
	return nil
}

// ValidateColumnName validates a column name.
func ValidateColumnName(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return fmt.Errorf("invalid column name %q: %w", name, err)
	}
	return nil
}

// quoteIdent wraps a validated identifier in double quotes, doubling any
// internal quote, so reserved words and exact casing survive in SQL text.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
