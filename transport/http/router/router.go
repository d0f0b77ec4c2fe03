package router

import (
	"poolbook/internal/handlers/booking"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "/v1"

// DomainHandlers lists the handlers mounted under the versioned API.
type DomainHandlers struct {
	Booking booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{DomainHandlers: domainHandlers}
}

// SetupRoutes mounts every domain on router under /v1. Health and other
// unversioned routes are registered by the server itself.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route(apiVersion, r.DomainHandlers.Booking.Router)
}
