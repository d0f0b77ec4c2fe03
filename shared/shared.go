package shared

import (
	"poolbook/shared/dto"
	"regexp"
	"strings"
)

const identifierMaxLength = 63

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether name is a plain, unquoted SQL identifier.
func IsIdentifier(name string) bool {
	return len(name) <= identifierMaxLength && identifierPattern.MatchString(name)
}

// BuildCacheKey joins the non-empty parts with a colon.
func BuildCacheKey(parts ...string) string {
	keys := make([]string, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			continue
		}

		keys = append(keys, part)
	}

	return strings.Join(keys, ":")
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
		Operator: dto.FilterGroupOperatorAnd,
	}
}
