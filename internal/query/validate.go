package query

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyQuery is returned for blank expressions.
	ErrEmptyQuery = errors.New("search query is required")
	// ErrNoConditions is returned when no `field OP "value"` condition is present.
	ErrNoConditions = errors.New(`no condition found; use field="value", field=="value" or field!="value"`)
)

// Validate is the caller-side check run before a query is sent to the search
// backend. The interactive submit path does not call it.
func Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyQuery
	}
	if len(Scan(raw)) == 0 {
		return ErrNoConditions
	}
	return nil
}
