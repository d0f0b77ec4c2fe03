package model

type Status string

const (
	StatusPreReserved Status = "pre_reserved"
	StatusBooked      Status = "booked"
	// StatusCancelled is recognised when reading rows but no operation produces it.
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPreReserved, StatusBooked, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a booking may move from s to next.
// Booked is final.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPreReserved && next == StatusBooked
}

// IsVoid reports whether a booking in this status no longer occupies a unit.
func (s Status) IsVoid() bool {
	return s == StatusCancelled
}
