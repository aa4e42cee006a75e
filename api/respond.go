package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sqlitedesk/sqlitedesk/daos"
)

// Stable machine codes carried by error responses.
const (
	CodeDatabaseNotFound    = "DATABASE_NOT_FOUND"
	CodeDatabaseExists      = "DATABASE_EXISTS"
	CodeInvalidDatabaseName = "INVALID_DATABASE_NAME"
	CodeTableNotFound       = "TABLE_NOT_FOUND"
	CodeColumnNotFound      = "COLUMN_NOT_FOUND"
	CodeInvalidIdentifier   = "INVALID_IDENTIFIER"
	CodeInvalidSortColumn   = "INVALID_SORT_COLUMN"
	CodeInvalidColumnType   = "INVALID_COLUMN_TYPE"
	CodeEmptyPayload        = "EMPTY_PAYLOAD"
	CodeMissingKey          = "MISSING_KEY"
	CodeInvalidKeyValue     = "INVALID_KEY_VALUE"
	CodeNoUsablePrimaryKey  = "NO_USABLE_PRIMARY_KEY"
	CodeUniqueViolation     = "UNIQUE_VIOLATION"
	CodeNotNullViolation    = "NOT_NULL_VIOLATION"
	CodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
	CodeInvalidBody         = "INVALID_BODY"
	CodeEngineError         = "ENGINE_ERROR"
)

// errInvalidBody marks request bodies that could not be decoded.
var errInvalidBody = errors.New("invalid request body")

// APIError is the JSON shape of every failure response.
type APIError struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// BuildAPIError maps an error to an HTTP status and a structured body.
// Known sentinels from the access layer map one to one; anything else is
// logged and hidden behind a generic engine error so SQL text and file
// paths never leak to clients.
func BuildAPIError(log *slog.Logger, err error) (int, APIError) {
	switch {
	case errors.Is(err, daos.ErrDatabaseNotFound):
		return http.StatusNotFound, APIError{
			Code:    CodeDatabaseNotFound,
			Message: err.Error(),
			Hint:    "List available databases with GET /api/databases.",
		}
	case errors.Is(err, daos.ErrDatabaseExists):
		return http.StatusConflict, APIError{
			Code:    CodeDatabaseExists,
			Message: err.Error(),
			Hint:    "Pick a different name, or upload to replace the existing file.",
		}
	case errors.Is(err, daos.ErrInvalidDatabaseName):
		return http.StatusBadRequest, APIError{
			Code:    CodeInvalidDatabaseName,
			Message: err.Error(),
			Hint:    "Database names use letters, digits, dot, dash, and underscore, with no path separators.",
		}
	case errors.Is(err, daos.ErrTableNotFound):
		return http.StatusNotFound, APIError{
			Code:    CodeTableNotFound,
			Message: err.Error(),
			Hint:    "List tables with GET /api/databases/{db}/tables.",
		}
	case errors.Is(err, daos.ErrColumnNotFound):
		return http.StatusBadRequest, APIError{
			Code:    CodeColumnNotFound,
			Message: err.Error(),
			Hint:    "Inspect the table schema to see its columns.",
		}
	case errors.Is(err, daos.ErrInvalidSortColumn):
		return http.StatusBadRequest, APIError{
			Code:    CodeInvalidSortColumn,
			Message: err.Error(),
			Hint:    "The sort parameter must name a column of the table.",
		}
	case errors.Is(err, daos.ErrInvalidColumnType):
		return http.StatusBadRequest, APIError{
			Code:    CodeInvalidColumnType,
			Message: err.Error(),
			Hint:    "Valid column types: TEXT, INTEGER, REAL, BLOB, NUMERIC.",
		}
	case errors.Is(err, daos.ErrInvalidIdentifier),
		errors.Is(err, daos.ErrEmptyIdentifier),
		errors.Is(err, daos.ErrIdentifierTooLong),
		errors.Is(err, daos.ErrInvalidCharacter):
		return http.StatusBadRequest, APIError{
			Code:    CodeInvalidIdentifier,
			Message: err.Error(),
			Hint:    "Identifiers contain only letters, digits, and underscores, at most 128 characters.",
		}
	case errors.Is(err, daos.ErrEmptyPayload):
		return http.StatusBadRequest, APIError{
			Code:    CodeEmptyPayload,
			Message: err.Error(),
			Hint:    "Provide at least one column value.",
		}
	case errors.Is(err, daos.ErrMissingKey):
		return http.StatusBadRequest, APIError{
			Code:    CodeMissingKey,
			Message: err.Error(),
			Hint:    "Row operations need the primary key value in the URL path.",
		}
	case errors.Is(err, daos.ErrInvalidKeyValue):
		return http.StatusBadRequest, APIError{
			Code:    CodeInvalidKeyValue,
			Message: err.Error(),
			Hint:    "Row key values cannot contain path separators or dot-dot sequences.",
		}
	case errors.Is(err, daos.ErrNoUsablePrimaryKey):
		return http.StatusBadRequest, APIError{
			Code:    CodeNoUsablePrimaryKey,
			Message: err.Error(),
			Hint:    "Row updates and deletes need a table with exactly one primary key column.",
		}
	case errors.Is(err, daos.ErrUniqueViolation):
		return http.StatusConflict, APIError{
			Code:    CodeUniqueViolation,
			Message: "record already exists",
			Hint:    "A row with this unique value is already present.",
		}
	case errors.Is(err, daos.ErrNotNullViolation):
		return http.StatusBadRequest, APIError{
			Code:    CodeNotNullViolation,
			Message: "required field is missing",
			Hint:    "One or more NOT NULL columns were left empty.",
		}
	case errors.Is(err, daos.ErrForeignKeyViolation):
		return http.StatusBadRequest, APIError{
			Code:    CodeForeignKeyViolation,
			Message: "foreign key constraint violation",
			Hint:    "The referenced row does not exist.",
		}
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, APIError{
			Code:    CodeInvalidBody,
			Message: err.Error(),
			Hint:    "The request body must be valid JSON of the documented shape.",
		}
	default:
		log.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, APIError{
			Code:    CodeEngineError,
			Message: "internal server error",
			Hint:    "Check the server logs for details.",
		}
	}
}

// respondErr writes a structured error response.
func (s *Server) respondErr(w http.ResponseWriter, err error) {
	status, apiErr := BuildAPIError(s.log, err)
	s.respondJSON(w, status, apiErr)
}

// respondJSON writes v as the JSON response body.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "error", err)
	}
}
