package api

import (
	"context"
	"net/http"

	"probook/internal/domain/user"
	reqdto "probook/internal/handler/dto/request"
	resdto "probook/internal/handler/dto/response"
	"probook/internal/handler/httperr"
	"probook/internal/handler/middleware"
	"probook/internal/usecase/commands"
	"probook/internal/usecase/queries"

	// Mark-aware Is: some pipeline errors carry their public sentinel as a
	// mark rather than a wrap.
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	pricingEngine   commands.PricingEngine
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(
	bookingCommands commands.BookingCommands,
	pricingEngine commands.PricingEngine,
	bookingQueries queries.BookingQueries,
) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		pricingEngine:   pricingEngine,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Book one or more services with a professional
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.bookingCommands.Create(c.Request.Context(), commands.CreateBookingParams{
		ClientID:       userID,
		ProfessionalID: req.ProfessionalID,
		StartTime:      req.StartTime,
		ServiceIDs:     req.ServiceIDs,
		CouponCode:     req.GetCouponCode(),
		RedeemPoints:   req.RedeemPoints,
		Note:           req.GetNote(),
	})
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateBookingResponse{
		Booking: resdto.FromBookingView(result.Booking),
		Quote:   resdto.FromPriceQuote(result.Quote),
	})
}

func (h *BookingHandler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrProfessionalNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Professional not found", nil)
	case errors.Is(err, commands.ErrCouponNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
	case errors.Is(err, commands.ErrBookingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Time slot is no longer available", nil)
	case errors.Is(err, commands.ErrInsufficientPoints):
		httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient bonus points", nil)
	case errors.Is(err, commands.ErrHolidayClosed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Professional is closed for a holiday", nil)
	case errors.Is(err, commands.ErrOutOfBusinessHours):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Requested time is outside business hours", nil)
	case errors.Is(err, commands.ErrInvalidCoupon):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid or expired coupon", nil)
	case errors.Is(err, commands.ErrProfessionalInactive),
		errors.Is(err, commands.ErrServiceNotOffered),
		errors.Is(err, commands.ErrNoServicesRequested),
		errors.Is(err, commands.ErrInvalidStartTime),
		errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// @Summary Price preview
// @Description Advisory price quote; the authoritative price is computed at creation
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PriceBookingRequest true "Pricing request"
// @Success 200 {object} resdto.PriceQuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/price [post]
func (h *BookingHandler) PriceBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.PriceBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	q, err := h.pricingEngine.Preview(c.Request.Context(), commands.PriceRequest{
		ClientID:       userID,
		ProfessionalID: req.ProfessionalID,
		ServiceIDs:     req.ServiceIDs,
		CouponCode:     req.GetCouponCode(),
		RedeemPoints:   req.RedeemPoints,
	})
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPriceQuote(q))
}

// @Summary Get booking
// @Description Get booking by ID; only its client or professional may read it
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, queries.ErrAccessDenied):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings
// @Description List the current user's bookings, as client or as professional
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var (
		items []*queries.BookingListItem
		err   error
	)
	if role, _ := middleware.GetUserRole(c); role == user.RoleProfessional {
		items, err = h.bookingQueries.ListByProfessional(c.Request.Context(), userID)
	} else {
		items, err = h.bookingQueries.ListByClient(c.Request.Context(), userID)
	}
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Confirm booking
// @Description Professional accepts a pending booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/confirm [patch]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.bookingCommands.Confirm)
}

// @Summary Cancel booking
// @Description Client or professional cancels a pending or confirmed booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [patch]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transition(c, h.bookingCommands.Cancel)
}

// @Summary Complete booking
// @Description Professional marks the booking done; loyalty points are earned
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/complete [patch]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.bookingCommands.Complete)
}

func (h *BookingHandler) transition(c *gin.Context, apply func(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := apply(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrNotOwner):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Booking does not belong to you", nil)
		case errors.Is(err, commands.ErrInvalidTransition):
			httperr.AbortWithError(c, http.StatusConflict, err, "Booking status does not allow this transition", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
