package model

import "poolbook/shared/failure"

var (
	// ErrQuotaExceeded is returned when a reservation would push a pool past its limit.
	ErrQuotaExceeded = failure.Conflict("quota exceeded for pool")
	// ErrUnitUnavailable is returned when a named unit already has an active booking.
	ErrUnitUnavailable = failure.Conflict("unit is not available")
	// ErrMissingExtraDataHandler is returned when extra data is supplied but no store is configured.
	ErrMissingExtraDataHandler = failure.InternalErrorFromString("extra data supplied but no extra data handler is configured")
	// ErrUnsupportedOperation is returned for operations the storage mode can never perform.
	ErrUnsupportedOperation = failure.Unimplemented("operation not supported by extra data storage mode")
	// ErrPersistence wraps any failure reported by the underlying store.
	ErrPersistence = failure.InternalErrorFromString("persistence failure")

	ErrInvalidOrder       = failure.BadRequestFromString("invalid order")
	ErrInvalidBooker      = failure.BadRequestFromString("invalid booker")
	ErrInvalidExtraData   = failure.BadRequestFromString("invalid extra data")
	ErrBookingSetNotFound = failure.NotFound("booking set not found")
	ErrPoolLocked         = failure.ServiceUnavailable("pool is locked by another reservation")
	ErrInvalidTransition  = failure.Conflict("invalid booking status transition")
)
