package repo

import "fmt"

// FormatLimitOffset returns a SQL LIMIT/OFFSET clause, omitting the parts
// that are not set. Values are formatted, not interpolated from user input;
// callers must clamp them first.
func FormatLimitOffset(limit, offset int) string {
	if limit > 0 && offset > 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	if limit > 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	if offset > 0 {
		return fmt.Sprintf("OFFSET %d", offset)
	}
	return ""
}
