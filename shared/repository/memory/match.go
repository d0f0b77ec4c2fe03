package memory

import (
	"fmt"
	"poolbook/shared/dto"
	"reflect"
	"strings"
)

// Match evaluates filter against row the way the SQL rendering of the same
// filter would. Missing columns read as NULL.
func Match(row map[string]any, filter dto.FilterGroup) bool {
	operator := filter.Operator
	if operator == "" {
		operator = dto.FilterGroupOperatorAnd
	}

	evaluated := false
	result := operator == dto.FilterGroupOperatorAnd

	for _, item := range filter.Filters {
		var (
			ok      bool
			matched bool
		)

		switch f := item.(type) {
		case dto.Filter:
			matched, ok = matchFilter(row, f)
		case dto.FilterGroup:
			if f.IsEmpty() {
				continue
			}

			matched, ok = Match(row, f), true
		case *dto.FilterGroup:
			if f == nil || f.IsEmpty() {
				continue
			}

			matched, ok = Match(row, *f), true
		}

		if !ok {
			continue
		}

		evaluated = true

		if operator == dto.FilterGroupOperatorOr {
			result = result || matched
		} else {
			result = result && matched
		}
	}

	if !evaluated {
		return true
	}

	return result
}

func matchFilter(row map[string]any, filter dto.Filter) (matched bool, ok bool) {
	value := row[filter.Field]

	switch filter.Operator {
	case dto.FilterOperatorEq:
		return value != nil && equal(value, filter.Value), true
	case dto.FilterOperatorNotEq:
		return value != nil && !equal(value, filter.Value), true
	case dto.FilterIsNull:
		return value == nil, true
	case dto.FilterIsNotNull:
		return value != nil, true
	case dto.FilterOperatorLike:
		if value == nil {
			return false, true
		}

		return strings.Contains(strings.ToLower(fmt.Sprint(value)), strings.ToLower(fmt.Sprint(filter.Value))), true
	case dto.FilterOperatorIn:
		candidates := reflect.ValueOf(filter.Value)
		if value == nil || (candidates.Kind() != reflect.Slice && candidates.Kind() != reflect.Array) {
			return false, true
		}

		for idx := range candidates.Len() {
			if equal(value, candidates.Index(idx).Interface()) {
				return true, true
			}
		}

		return false, true
	default:
		return false, false
	}
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return fmt.Sprint(a) == fmt.Sprint(b)
}
