package dto

import (
	"poolbook/internal/domains/booking/model"
	"poolbook/shared/constant"
)

type BookerRequest struct {
	ID         string `json:"id"          validate:"required,max=255"`
	DataSource string `json:"data_source" validate:"omitempty,max=255"`
}

type CreateBookingRequest struct {
	Type      string         `json:"type"       validate:"required,oneof=simple unit set"`
	UnitID    string         `json:"unit_id"    validate:"required_if=Type unit,excluded_unless=Type unit"`
	Quantity  int            `json:"quantity"   validate:"required_if=Type set,gte=0,lte=1000"`
	Booker    BookerRequest  `json:"booker"     validate:"required"`
	ExtraData map[string]any `json:"extra_data" validate:"omitempty"`
}

func (c *CreateBookingRequest) ToOrder(poolID string) (model.Order, error) {
	return model.NewOrder(model.OrderKind(c.Type), poolID, c.UnitID, c.Quantity) //nolint:wrapcheck
}

func (c *CreateBookingRequest) ToBooker() model.Booker {
	if c.Booker.DataSource != "" {
		return model.ExternalBooker(c.Booker.ID, c.Booker.DataSource)
	}

	return model.InternalBooker(c.Booker.ID)
}

// ToExtraData keeps a missing payload nil so nothing is stored.
func (c *CreateBookingRequest) ToExtraData() model.ExtraData {
	if c.ExtraData == nil {
		return nil
	}

	return model.ExtraData(c.ExtraData)
}

type UpdateExtraDataRequest struct {
	ExtraData map[string]any `json:"extra_data" validate:"required"`
}

type CreateBookingResponse struct {
	BookingSetID string `json:"booking_set_id"`
}

type CountBookingsResponse struct {
	PoolID string `json:"pool_id"`
	Count  int    `json:"count"`
}

type BookingResponse struct {
	ID               int64          `json:"id"`
	PoolID           string         `json:"pool_id"`
	UnitID           string         `json:"unit_id,omitempty"`
	BookingSetID     string         `json:"booking_set_id"`
	Status           string         `json:"status"`
	StatusChangedAt  string         `json:"status_datetime_utc,omitempty"`
	UserID           string         `json:"user_id"`
	BookerDataSource string         `json:"booker_data_source,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.PoolID = booking.PoolID
	r.UnitID = booking.UnitID
	r.BookingSetID = booking.BookingSetID
	r.Status = string(booking.Status)
	r.UserID = booking.UserID
	r.BookerDataSource = booking.BookerDataSource
	r.Extra = booking.Extra

	if booking.StatusChangedAt != nil {
		r.StatusChangedAt = booking.StatusChangedAt.Format(constant.DateFormat)
	}
}

type BookingSetResponse struct {
	BookingSetID string            `json:"booking_set_id"`
	Bookings     []BookingResponse `json:"bookings"`
	ExtraData    map[string]any    `json:"extra_data,omitempty"`
}

func (r *BookingSetResponse) FromModels(bookingSetID string, bookings []model.Booking, extra model.ExtraData) {
	r.BookingSetID = bookingSetID
	r.ExtraData = extra

	r.Bookings = make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		r.Bookings[i].FromModel(booking)
	}
}
