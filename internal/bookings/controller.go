package bookings

import (
	"errors"
	"net/http"

	"hallbook/internal/resources"
	"hallbook/internal/shared/middleware"
	"hallbook/internal/shared/utils/response"
	"hallbook/internal/users"
	"hallbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service      Service
	debugEnabled bool
}

func NewController(service Service, debugEnabled bool) *Controller {
	registerBindingValidators()
	return &Controller{service: service, debugEnabled: debugEnabled}
}

// CreateBooking godoc
// @Summary Submit a booking request
// @Description Validates the form, checks the slot for overlaps, prices it and stores it as pending.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Booking request"
// @Success 200 {object} response.StandardApiResponse{data=CreateBookingResponse}
// @Failure 400 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse{data=ConflictResponse}
// @Failure 500 {object} response.StandardApiResponse
// @Router /bookings [post]
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	// a signed-in customer books as themselves
	if session, ok := middleware.CurrentSession(ctx); ok && req.CustomerID == "" {
		req.CustomerID = session.UserID
	}

	result, err := c.service.CreateBooking(ctx.Request.Context(), &req)
	if err != nil {
		c.respondCreateError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking created successfully", result, nil)
}

func (c *Controller) respondCreateError(ctx *gin.Context, err error) {
	var validation *ValidationError
	var conflict *ConflictError

	switch {
	case errors.As(err, &validation):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, validation.Message, nil, nil)
	case errors.Is(err, users.ErrHallOwnerNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Hall owner not found", nil, nil)
	case errors.Is(err, resources.ErrResourceNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Selected hall not found", nil, nil)
	case errors.Is(err, ErrResourceOwnerMismatch):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Selected hall does not belong to the specified hall owner", nil, nil)
	case errors.As(err, &conflict):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Time slot is already booked. Please choose a different time.", ConflictResponse{
			ConflictingBooking: conflict.Conflict,
			Debug:              conflict.Debug,
		}, nil)
	case errors.Is(err, ErrSlotBusy):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Another booking for this slot is being processed. Please retry.", nil, nil)
	default:
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
	}
}

// GetUnavailableDates godoc
// @Summary Booked slots of an owner, grouped by date and hall
// @Tags bookings
// @Produce json
// @Param ownerId path string true "Hall owner ID"
// @Param resourceId query string false "Only this hall"
// @Param startDate query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Success 200 {object} response.StandardApiResponse{data=UnavailableDatesResponse}
// @Failure 404 {object} response.StandardApiResponse
// @Router /bookings/unavailable-dates/{ownerId} [get]
func (c *Controller) GetUnavailableDates(ctx *gin.Context) {
	var q UnavailableDatesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD", nil, err.Error())
		return
	}

	result, err := c.service.GetUnavailableDates(ctx.Request.Context(), ctx.Param("ownerId"), q)
	if err != nil {
		if errors.Is(err, users.ErrHallOwnerNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Hall owner not found", nil, nil)
			return
		}
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error while fetching unavailable dates", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Successfully fetched unavailable dates", result, nil)
}

// debugOwner checks that debug routes are on and the caller manages the
// owner in the path.
func (c *Controller) debugOwner(ctx *gin.Context) (string, bool) {
	if !c.debugEnabled {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Not found", nil, nil)
		return "", false
	}
	ownerID := ctx.Param("ownerId")
	if !actorFor(ctx).CanManage(ownerID) {
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		return "", false
	}
	return ownerID, true
}

// ListDebugBookings godoc
// @Summary Inspect an owner's bookings
// @Tags bookings-debug
// @Produce json
// @Security BearerAuth
// @Param ownerId path string true "Hall owner ID"
// @Param includeAll query bool false "Include cancelled and rejected bookings"
// @Success 200 {object} response.StandardApiResponse{data=DebugListResponse}
// @Failure 403 {object} response.StandardApiResponse
// @Router /bookings/debug/{ownerId} [get]
func (c *Controller) ListDebugBookings(ctx *gin.Context) {
	ownerID, ok := c.debugOwner(ctx)
	if !ok {
		return
	}

	result, err := c.service.ListDebugBookings(ctx.Request.Context(), ownerID, ctx.Query("includeAll") == "true")
	if err != nil {
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// DeleteDebugBooking godoc
// @Summary Hard-delete one of an owner's bookings
// @Tags bookings-debug
// @Produce json
// @Security BearerAuth
// @Param ownerId path string true "Hall owner ID"
// @Param bookingId query string true "Booking ID"
// @Success 200 {object} response.StandardApiResponse{data=DeleteBookingResponse}
// @Failure 400 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /bookings/debug/{ownerId} [delete]
func (c *Controller) DeleteDebugBooking(ctx *gin.Context) {
	ownerID, ok := c.debugOwner(ctx)
	if !ok {
		return
	}

	bookingID := ctx.Query("bookingId")
	if bookingID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "bookingId query parameter is required", nil, nil)
		return
	}

	if err := c.service.DeleteDebugBooking(ctx.Request.Context(), ownerID, bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking deleted successfully", DeleteBookingResponse{BookingID: bookingID}, nil)
}

// ListOwnerBookings godoc
// @Summary List the signed-in owner's bookings
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, confirmed, cancelled or rejected"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} response.StandardApiResponse{data=[]Booking}
// @Router /owner/bookings [get]
func (c *Controller) ListOwnerBookings(ctx *gin.Context) {
	var q OwnerBookingsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	actor := actorFor(ctx)
	ownerID := actor.UserID
	if actor.Admin && ctx.Query("ownerId") != "" {
		ownerID = ctx.Query("ownerId")
	}

	list, err := c.service.ListOwnerBookings(ctx.Request.Context(), ownerID, q)
	if err != nil {
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", list, nil)
}

// UpdateBookingStatus godoc
// @Summary Confirm, reject or cancel a booking
// @Tags owner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} response.StandardApiResponse{data=StatusChangeResponse}
// @Failure 404 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /owner/bookings/{id}/status [patch]
func (c *Controller) UpdateBookingStatus(ctx *gin.Context) {
	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Status must be one of: confirmed, rejected, cancelled", nil, err.Error())
		return
	}

	result, err := c.service.UpdateStatus(ctx.Request.Context(), actorFor(ctx), ctx.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrInvalidStatusTransition):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Booking cannot move to status "+string(req.Status), nil, nil)
		default:
			logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		}
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking status updated", result, nil)
}

// GetUserBookings godoc
// @Summary The signed-in customer's booking history
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} response.StandardApiResponse{data=BookingListResponse}
// @Router /users/bookings [get]
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	var q HistoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid pagination parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListCustomerBookings(ctx.Request.Context(), actorFor(ctx).UserID, q)
	if err != nil {
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

func actorFor(ctx *gin.Context) Actor {
	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		return Actor{}
	}
	return Actor{
		UserID: session.UserID,
		Admin:  session.HasRole(string(users.RoleAdmin)),
	}
}
