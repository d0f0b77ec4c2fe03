package dto_test

import (
	"poolbook/shared/dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq",
			filter:    dto.Eq("pool_id", "2"),
			wantWhere: "pool_id = :pool_id",
			wantArgs:  map[string]any{"pool_id": "2"},
		},
		{
			name:      "eq with arg name and table",
			filter:    dto.Filter{ArgName: "pid", Field: "pool_id", Value: "2", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.pool_id = :pid",
			wantArgs:  map[string]any{"pid": "2"},
		},
		{
			name:      "not eq",
			filter:    dto.NotEq("status", "cancelled"),
			wantWhere: "status != :status",
			wantArgs:  map[string]any{"status": "cancelled"},
		},
		{
			name:      "is null",
			filter:    dto.IsNull("status"),
			wantWhere: "status IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "unit_id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn},
			wantWhere: "unit_id IN (:unit_id_0, :unit_id_1)",
			wantArgs:  map[string]any{"unit_id_0": "a", "unit_id_1": "b"},
		},
		{
			name:      "like",
			filter:    dto.Filter{Field: "booking_type", Value: "vip", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(booking_type) LIKE LOWER(:booking_type)",
			wantArgs:  map[string]any{"booking_type": "%vip%"},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "status", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		group     dto.FilterGroup
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name: "nested non void filter",
			group: dto.And(
				dto.Eq("pool_id", "2"),
				dto.Or(dto.IsNull("status"), dto.NotEq("status", "cancelled")),
			),
			wantWhere: "(pool_id = :pool_id AND (status IS NULL OR status != :status))",
			wantArgs:  map[string]any{"pool_id": "2", "status": "cancelled"},
		},
		{
			name:      "empty operator defaults to and",
			group:     dto.FilterGroup{Filters: []any{dto.Eq("a", 1), dto.Eq("b", 2)}},
			wantWhere: "(a = :a AND b = :b)",
			wantArgs:  map[string]any{"a": 1, "b": 2},
		},
		{
			name:      "empty group",
			group:     dto.FilterGroup{},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "empty nested groups are skipped",
			group:     dto.And(dto.FilterGroup{}, dto.Eq("a", 1), (*dto.FilterGroup)(nil)),
			wantWhere: "(a = :a)",
			wantArgs:  map[string]any{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
			assert.Equal(t, tt.wantWhere == "", tt.group.IsEmpty())
		})
	}
}
