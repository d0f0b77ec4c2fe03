package repository

import (
	"errors"
	"poolbook/shared/dto"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestBuildInsertQuery(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]any
		returning string
		want      string
		wantErr   bool
	}{
		{
			name:      "sorted columns with returning",
			fields:    map[string]any{"status": "pre_reserved", "pool_id": "2", "booking_set_id": "abc"},
			returning: "id",
			want:      "INSERT INTO bookings (booking_set_id, pool_id, status) VALUES (:booking_set_id, :pool_id, :status) RETURNING id",
		},
		{
			name:   "without returning",
			fields: map[string]any{"booking_set_id": "abc"},
			want:   "INSERT INTO bookings (booking_set_id) VALUES (:booking_set_id)",
		},
		{
			name:    "no fields",
			fields:  map[string]any{},
			wantErr: true,
		},
		{
			name:    "invalid column",
			fields:  map[string]any{"status; --": "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildInsertQuery("bookings", tt.fields, tt.returning)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildUpdateQuery(t *testing.T) {
	fields := map[string]any{"status": "booked", "status_datetime_utc": "now"}
	filter := dto.And(dto.Eq("booking_set_id", "abc"), dto.Eq("status", "pre_reserved"))

	query, args, err := BuildUpdateQuery("bookings", fields, filter)

	assert.NoError(t, err)
	assert.Equal(t,
		"UPDATE bookings SET status = :set_status, status_datetime_utc = :set_status_datetime_utc WHERE (booking_set_id = :booking_set_id AND status = :status)",
		query,
	)
	assert.Equal(t, map[string]any{
		"booking_set_id":          "abc",
		"status":                  "pre_reserved",
		"set_status":              "booked",
		"set_status_datetime_utc": "now",
	}, args)
}

func TestBuildUpdateQuery_Errors(t *testing.T) {
	_, _, err := BuildUpdateQuery("bookings", map[string]any{"status": "booked"}, dto.FilterGroup{})
	assert.ErrorIs(t, err, errRequiredFilter)

	_, _, err = BuildUpdateQuery("bookings", nil, dto.And(dto.Eq("id", 1)))
	assert.ErrorIs(t, err, errRequiredFields)
}

func TestBuildCountQuery(t *testing.T) {
	query, args := BuildCountQuery("bookings", dto.FilterGroup{})
	assert.Equal(t, "SELECT COUNT(*) FROM bookings", query)
	assert.Empty(t, args)

	query, args = BuildCountQuery("bookings", dto.And(dto.Eq("pool_id", "2")))
	assert.Equal(t, "SELECT COUNT(*) FROM bookings WHERE (pool_id = :pool_id)", query)
	assert.Equal(t, map[string]any{"pool_id": "2"}, args)
}

func TestBuildSelectQuery(t *testing.T) {
	query, _, err := BuildSelectQuery("booking_extra_datas", dto.And(dto.Eq("booking_set_id", "abc")))
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM booking_extra_datas WHERE (booking_set_id = :booking_set_id)", query)

	query, _, err = BuildSelectQuery("bookings", dto.FilterGroup{}, "id", "status")
	assert.NoError(t, err)
	assert.Equal(t, "SELECT id, status FROM bookings", query)

	_, _, err = BuildSelectQuery("bookings", dto.FilterGroup{}, "id, password")
	assert.Error(t, err)
}

func TestMapDriverError(t *testing.T) {
	unique := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	assert.ErrorIs(t, mapDriverError(unique), ErrUniqueViolation)

	fk := &pq.Error{Code: "23503"}
	assert.NotErrorIs(t, mapDriverError(fk), ErrUniqueViolation)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapDriverError(plain))
}
