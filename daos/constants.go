package daos

import "strings"

// Column types accepted in table definitions. These are the storage
// classes SQLite recognizes natively; anything else is rejected before
// a statement is built.
const (
	ColTypeText    = "TEXT"
	ColTypeInteger = "INTEGER"
	ColTypeReal    = "REAL"
	ColTypeBlob    = "BLOB"
	ColTypeNumeric = "NUMERIC"
)

// Sort directions accepted by browse requests. Anything that is not
// the descending keyword falls back to ascending.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// mapColType normalizes a declared column type to one of the accepted
// storage classes. It returns "" when the type is not recognized.
func mapColType(colType string) string {
	switch strings.ToUpper(strings.TrimSpace(colType)) {
	case ColTypeText:
		return ColTypeText
	case ColTypeInteger:
		return ColTypeInteger
	case ColTypeReal:
		return ColTypeReal
	case ColTypeBlob:
		return ColTypeBlob
	case ColTypeNumeric:
		return ColTypeNumeric
	default:
		return ""
	}
}
