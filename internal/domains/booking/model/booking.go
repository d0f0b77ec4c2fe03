package model

import "time"

// Booking is one reserved unit. Rows of the same reservation share BookingSetID.
type Booking struct {
	ID               int64
	PoolID           string
	UnitID           string
	BookingSetID     string
	Status           Status
	StatusChangedAt  *time.Time
	UserID           string
	BookerDataSource string
	Extra            ExtraData
}

func (b Booking) Booker() Booker {
	return Booker{ID: b.UserID, DataSource: b.BookerDataSource}
}

// BookedEvent is published once a booking set has been confirmed.
type BookedEvent struct {
	BookingSetID     string    `json:"booking_set_id"`
	PoolID           string    `json:"pool_id"`
	OrderKind        OrderKind `json:"order_kind"`
	UnitID           string    `json:"unit_id,omitempty"`
	Units            int       `json:"units"`
	BookerID         string    `json:"booker_id"`
	BookerDataSource string    `json:"booker_data_source,omitempty"`
	BookedAt         time.Time `json:"booked_at"`
}
