package booking

import (
	"errors"
	"net/http"
	"poolbook/infras/otel"
	"poolbook/internal/domains/booking/model"
	"poolbook/internal/domains/booking/model/dto"
	"poolbook/internal/domains/booking/service"
	"poolbook/shared/constant"
	gDto "poolbook/shared/dto"
	"poolbook/shared/validator"
	"poolbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const statusFilterRule = "omitempty,oneof=pre_reserved booked cancelled"

type Handler struct {
	service service.Booking
	mapping model.Mapping
	otel    otel.Otel
}

func New(service service.Booking, mapping model.Mapping, otel otel.Otel) Handler {
	return Handler{
		service: service,
		mapping: mapping,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/pools/{"+constant.RequestParamPoolID+"}/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/count", handler.CountBookings)
	})

	router.Route("/booking-sets/{"+constant.RequestParamBookingSetID+"}", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookingSet)
		routerGroup.Patch("/extra-data", handler.UpdateExtraData)
		routerGroup.Delete("/extra-data", handler.DeleteExtraData)
	})
}

// CreateBooking reserves units of a pool.
// @Summary Book units of a pool
// @Tags Booking
// @Accept json
// @Produce json
// @Param poolID path string true "Pool ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.CreateBookingResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pools/{poolID}/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	poolID := chi.URLParam(request, constant.RequestParamPoolID)
	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	order, err := req.ToOrder(poolID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	bookingSetID, err := handler.service.Book(ctx, order, req.ToBooker(), req.ToExtraData())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("pool_id", poolID).Msg("failed to book")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking set " + bookingSetID + " created")

	response.WithJSON(writer, http.StatusCreated, dto.CreateBookingResponse{BookingSetID: bookingSetID})
}

// CountBookings counts the bookings of a pool, optionally by status.
// @Summary Count bookings of a pool
// @Tags Booking
// @Produce json
// @Param poolID path string true "Pool ID"
// @Param status query string false "Filter by status (pre_reserved, booked, cancelled)"
// @Success 200 {object} response.Data[dto.CountBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/pools/{poolID}/bookings/count [get]
func (handler *Handler) CountBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CountBookings")
	defer scope.End()

	poolID := chi.URLParam(request, constant.RequestParamPoolID)
	status := request.URL.Query().Get(constant.RequestParamStatus)

	if err := validator.ValidateVar(status, statusFilterRule); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	var filter *gDto.FilterGroup

	if status != "" {
		group := gDto.And(gDto.Eq(handler.mapping.Status, status))
		filter = &group
	}

	count, err := handler.service.GetNbBookings(ctx, poolID, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("pool_id", poolID).Msg("failed to count bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.CountBookingsResponse{PoolID: poolID, Count: count})
}

// GetBookingSet returns the rows of a booking set and its extra data.
// @Summary Get a booking set
// @Tags Booking
// @Produce json
// @Param bookingSetID path string true "Booking set ID"
// @Success 200 {object} response.Data[dto.BookingSetResponse]
// @Failure 404 {object} response.Error
// @Router /v1/booking-sets/{bookingSetID} [get]
func (handler *Handler) GetBookingSet(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingSet")
	defer scope.End()

	bookingSetID := chi.URLParam(request, constant.RequestParamBookingSetID)

	bookings, err := handler.service.GetBookingSet(ctx, bookingSetID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	extra, err := handler.service.GetExtraData(ctx, bookingSetID)
	if err != nil && !errors.Is(err, model.ErrMissingExtraDataHandler) {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to get extra data")

		response.WithError(writer, err)

		return
	}

	resp := dto.BookingSetResponse{}
	resp.FromModels(bookingSetID, bookings, extra)

	response.WithJSON(writer, http.StatusOK, resp)
}

// UpdateExtraData overwrites the extra data of a booking set.
// @Summary Update extra data of a booking set
// @Tags Booking
// @Accept json
// @Produce json
// @Param bookingSetID path string true "Booking set ID"
// @Param request body dto.UpdateExtraDataRequest true "Update Extra Data Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/booking-sets/{bookingSetID}/extra-data [patch]
func (handler *Handler) UpdateExtraData(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateExtraData")
	defer scope.End()

	bookingSetID := chi.URLParam(request, constant.RequestParamBookingSetID)
	req := dto.UpdateExtraDataRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	if err := handler.service.UpdateExtraData(ctx, bookingSetID, model.ExtraData(req.ExtraData)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to update extra data")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Extra data updated successfully")
}

// DeleteExtraData removes the extra data of a booking set.
// @Summary Delete extra data of a booking set
// @Tags Booking
// @Produce json
// @Param bookingSetID path string true "Booking set ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 501 {object} response.Error
// @Router /v1/booking-sets/{bookingSetID}/extra-data [delete]
func (handler *Handler) DeleteExtraData(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteExtraData")
	defer scope.End()

	bookingSetID := chi.URLParam(request, constant.RequestParamBookingSetID)

	if err := handler.service.DeleteExtraData(ctx, bookingSetID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_set_id", bookingSetID).Msg("failed to delete extra data")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Extra data deleted successfully")
}
