package constant

import (
	"time"
)

const (
	RequestParamPoolID       = "poolID"
	RequestParamBookingSetID = "bookingSetID"
	RequestParamStatus       = "status"
)

const PqErrorCodeUniqueViolation = "23505"

const (
	DateFormat = time.RFC3339
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelLockScopeName       = "lock"

	OtelQueryAttributeKey        = "query"
	OtelPoolIDAttributeKey       = "pool_id"
	OtelBookingSetIDAttributeKey = "booking_set_id"
	OtelOrderKindAttributeKey    = "order_kind"
)

const (
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	ExtraDataModeNone     = "none"
	ExtraDataModeMerged   = "merged"
	ExtraDataModeSeparate = "separate"
)

const (
	QuotaModeNone  = "none"
	QuotaModeBasic = "basic"
)

const (
	LockModeAdvisory = "advisory"
	LockModeRedis    = "redis"
	LockKeyPrefix    = "poolbook:lock:pool"
)

const (
	CacheKeyPrefixRateLimit = "poolbook:ratelimit"
)
