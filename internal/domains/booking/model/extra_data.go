package model

import (
	"fmt"
	"maps"
	"poolbook/shared"
	"slices"
	"time"
)

// ExtraData is caller supplied data stored alongside a booking set. A nil
// value means there is nothing to store.
type ExtraData map[string]any

// Fields returns the keys in a stable order.
func (d ExtraData) Fields() []string {
	return slices.Sorted(maps.Keys(d))
}

// Validate checks that every key is a plain identifier that does not collide
// with a reserved column, and that every value fits in a single column.
func (d ExtraData) Validate(reserved ...string) error {
	for _, field := range d.Fields() {
		if !shared.IsIdentifier(field) {
			return fmt.Errorf("%w: field %q is not a valid column name", ErrInvalidExtraData, field)
		}

		if slices.Contains(reserved, field) {
			return fmt.Errorf("%w: field %q is reserved", ErrInvalidExtraData, field)
		}

		if !isScalar(d[field]) {
			return fmt.Errorf("%w: field %q holds a %T, only scalar values are stored", ErrInvalidExtraData, field, d[field])
		}
	}

	return nil
}

func isScalar(value any) bool {
	switch value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, time.Time:
		return true
	default:
		return false
	}
}

func (d ExtraData) Clone() ExtraData {
	if d == nil {
		return nil
	}

	return maps.Clone(d)
}
