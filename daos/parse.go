package daos

import (
	"fmt"
	"strings"
)

// ParseFilter splits one "column:value" token at the FIRST colon, so values
// containing colons survive intact. A token with no colon is rejected: the
// browse surface has no bare-word search, every condition names a column.
//
// The value is kept raw. "NULL" selects NULL rows and a leading or trailing
// % turns the condition into a LIKE match; there is no escape for a literal
// %, matching the observed behavior of the encoding this parses.
func ParseFilter(token string) (Filter, error) {
	column, value, found := strings.Cut(token, ":")
	if !found {
		return Filter{}, fmt.Errorf("%w: filter %q is not column:value", ErrInvalidIdentifier, token)
	}
	if err := ValidateColumnName(column); err != nil {
		return Filter{}, err
	}
	return Filter{Column: column, Value: value}, nil
}

// ParseFilters parses a list of filter tokens in order. A single bad token
// rejects the whole list.
func ParseFilters(tokens []string) ([]Filter, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	filters := make([]Filter, 0, len(tokens))
	for _, token := range tokens {
		f, err := ParseFilter(token)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// ValidateKeyValue rejects row identifiers that arrived through a URL path
// and still carry path structure after percent-decoding.
func ValidateKeyValue(value string) error {
	if value == "" {
		return fmt.Errorf("%w: row key is empty", ErrMissingKey)
	}
	if strings.Contains(value, "/") || strings.Contains(value, "..") {
		return fmt.Errorf("%w: row key %q contains path characters", ErrInvalidKeyValue, value)
	}
	return nil
}
