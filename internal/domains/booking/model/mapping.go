package model

import (
	"errors"
	"fmt"
	"poolbook/config"
	"poolbook/shared/dto"
	"poolbook/shared/validator"
	"slices"
	"strconv"
	"time"
)

// Mapping names the booking table and its core columns. It is built once
// from configuration and never changes afterwards.
type Mapping struct {
	Table            string
	ID               string
	PoolID           string
	BookingSetID     string
	Status           string
	StatusChangedAt  string
	UserID           string
	BookerDataSource string
	UnitID           string
	ExtraDataTable   string
}

// DefaultMapping matches the schema shipped in migrations/postgres.
func DefaultMapping() Mapping {
	return Mapping{
		Table:            "bookings",
		ID:               "id",
		PoolID:           "pool_id",
		BookingSetID:     "booking_set_id",
		Status:           "status",
		StatusChangedAt:  "status_datetime_utc",
		UserID:           "user_id",
		BookerDataSource: "booker_data_source",
		UnitID:           "unit_id",
		ExtraDataTable:   "booking_extra_datas",
	}
}

func NewMapping(cfg *config.Config) (Mapping, error) {
	settings := cfg.Booking
	if err := validator.ValidateStruct(&settings); err != nil {
		return Mapping{}, fmt.Errorf("invalid booking configuration: %w", err)
	}

	mapping := Mapping{
		Table:            settings.Resource,
		ID:               settings.Fields.ID,
		PoolID:           settings.Fields.PoolID,
		BookingSetID:     settings.Fields.BookingSetID,
		Status:           settings.Fields.Status,
		StatusChangedAt:  settings.Fields.StatusChangedAt,
		UserID:           settings.Fields.UserID,
		BookerDataSource: settings.Fields.BookerDataSource,
		UnitID:           settings.Fields.UnitID,
		ExtraDataTable:   settings.ExtraData.Table,
	}

	if err := mapping.Validate(); err != nil {
		return Mapping{}, err
	}

	return mapping, nil
}

// Validate rejects mappings where two core fields share a column.
func (m Mapping) Validate() error {
	columns := m.CoreColumns()

	for idx, column := range columns {
		if column == "" {
			return errors.New("invalid booking configuration: empty column name")
		}

		if slices.Contains(columns[idx+1:], column) {
			return fmt.Errorf("invalid booking configuration: column %q is mapped twice", column)
		}
	}

	if m.ExtraDataTable == m.Table {
		return fmt.Errorf("invalid booking configuration: extra data table must differ from %q", m.Table)
	}

	return nil
}

func (m Mapping) CoreColumns() []string {
	return []string{m.ID, m.PoolID, m.BookingSetID, m.Status, m.StatusChangedAt, m.UserID, m.BookerDataSource, m.UnitID}
}

// BySet matches every row of a booking set.
func (m Mapping) BySet(bookingSetID string) dto.FilterGroup {
	return dto.And(dto.Eq(m.BookingSetID, bookingSetID))
}

// ByPool matches every row of a pool, narrowed by filter when given.
func (m Mapping) ByPool(poolID string, filter *dto.FilterGroup) dto.FilterGroup {
	group := dto.And(dto.Eq(m.PoolID, poolID))
	if filter != nil && !filter.IsEmpty() {
		group.Filters = append(group.Filters, *filter)
	}

	return group
}

// NonVoid matches the rows of a pool that still occupy a unit.
func (m Mapping) NonVoid(poolID string) dto.FilterGroup {
	return dto.And(
		dto.Eq(m.PoolID, poolID),
		dto.Or(dto.IsNull(m.Status), dto.NotEq(m.Status, string(StatusCancelled))),
	)
}

// ToRow renders b as column values. ID is left to the store.
func (m Mapping) ToRow(b Booking) map[string]any {
	row := map[string]any{
		m.PoolID:           b.PoolID,
		m.BookingSetID:     b.BookingSetID,
		m.Status:           string(b.Status),
		m.UserID:           b.UserID,
		m.UnitID:           nil,
		m.BookerDataSource: nil,
		m.StatusChangedAt:  nil,
	}

	if b.UnitID != "" {
		row[m.UnitID] = b.UnitID
	}

	if b.BookerDataSource != "" {
		row[m.BookerDataSource] = b.BookerDataSource
	}

	if b.StatusChangedAt != nil {
		row[m.StatusChangedAt] = b.StatusChangedAt.UTC()
	}

	return row
}

// FromRow reads a booking back from column values. Non-core, non-null
// columns end up in Extra.
func (m Mapping) FromRow(row map[string]any) Booking {
	booking := Booking{
		ID:               asInt64(row[m.ID]),
		PoolID:           asString(row[m.PoolID]),
		UnitID:           asString(row[m.UnitID]),
		BookingSetID:     asString(row[m.BookingSetID]),
		Status:           Status(asString(row[m.Status])),
		UserID:           asString(row[m.UserID]),
		BookerDataSource: asString(row[m.BookerDataSource]),
	}

	if changedAt, ok := row[m.StatusChangedAt].(time.Time); ok {
		utc := changedAt.UTC()
		booking.StatusChangedAt = &utc
	}

	core := m.CoreColumns()

	for column, value := range row {
		if value == nil || slices.Contains(core, column) {
			continue
		}

		if booking.Extra == nil {
			booking.Extra = ExtraData{}
		}

		booking.Extra[column] = value
	}

	return booking
}

func asString(value any) string {
	switch val := value.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

func asInt64(value any) int64 {
	switch val := value.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case string:
		parsed, _ := strconv.ParseInt(val, 10, 64)

		return parsed
	default:
		return 0
	}
}
