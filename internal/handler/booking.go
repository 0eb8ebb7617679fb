package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel/internal/domain"
)

const foundByPaymentID = "payment_id"

// BookingFinder resolves a confirmed booking from a gateway payment id.
type BookingFinder interface {
	FindByPaymentID(ctx context.Context, paymentID string) (*domain.BookingConfirmation, error)
}

// BookingHandler handles HTTP requests for booking lookups.
type BookingHandler struct {
	lookupService BookingFinder
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(lookupService BookingFinder) *BookingHandler {
	return &BookingHandler{lookupService: lookupService}
}

// FindBookingRequest is the HTTP request body for POST lookups.
type FindBookingRequest struct {
	PaymentID string `json:"paymentId"`
}

// FindBookingResponse is the HTTP response for a booking lookup.
type FindBookingResponse struct {
	Success bool                        `json:"success"`
	Booking *domain.BookingConfirmation `json:"booking"`
	FoundBy string                      `json:"foundBy"`
}

// FindByPaymentQuery handles GET /api/find-booking-by-payment?paymentId=...
func (h *BookingHandler) FindByPaymentQuery(c *gin.Context) {
	h.find(c, c.Query("paymentId"))
}

// FindByPaymentBody handles POST /api/find-booking-by-payment
func (h *BookingHandler) FindByPaymentBody(c *gin.Context) {
	var req FindBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}
	h.find(c, req.PaymentID)
}

func (h *BookingHandler) find(c *gin.Context, paymentID string) {
	booking, err := h.lookupService.FindByPaymentID(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FindBookingResponse{
		Success: true,
		Booking: booking,
		FoundBy: foundByPaymentID,
	})
}
