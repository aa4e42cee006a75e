package daos

import (
	"fmt"
	"strings"
)

// classifyEngineError translates an engine failure into the error taxonomy
// by inspecting its message text. The engine reports constraint and schema
// problems only through unstructured messages, so the substring matching is
// deliberately confined to this one function; anything unrecognized wraps
// as ErrEngine with the raw message preserved.
func classifyEngineError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return fmt.Errorf("%w: %s", ErrUniqueViolation, msg)
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %s", ErrNotNullViolation, msg)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %s", ErrForeignKeyViolation, msg)
	case strings.Contains(msg, "no such table"):
		return fmt.Errorf("%w: %s", ErrTableNotFound, msg)
	case strings.Contains(msg, "no such column"):
		return fmt.Errorf("%w: %s", ErrColumnNotFound, msg)
	}
	return fmt.Errorf("%w: %s", ErrEngine, msg)
}
