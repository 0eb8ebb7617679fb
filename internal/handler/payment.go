package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"travel/internal/service"
)

const (
	messageVerified        = "Payment verified and booking confirmed"
	messageAlreadyVerified = "Payment already verified"
)

// PaymentVerifier confirms a booking from a gateway payment callback.
type PaymentVerifier interface {
	VerifyAndConfirm(ctx context.Context, req service.VerifyPaymentRequest) (*service.Confirmation, error)
}

// PaymentHandler handles HTTP requests for payment verification.
type PaymentHandler struct {
	confirmationService PaymentVerifier
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(confirmationService PaymentVerifier) *PaymentHandler {
	return &PaymentHandler{confirmationService: confirmationService}
}

// VerifyPaymentRequest is the HTTP request body sent by the checkout client.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyPaymentResponse is the HTTP response for a verified payment.
type VerifyPaymentResponse struct {
	Success          bool   `json:"success"`
	BookingID        string `json:"bookingId"`
	BookingReference string `json:"bookingReference"`
	PaymentID        string `json:"paymentId"`
	Message          string `json:"message"`
}

// VerifyPayment handles POST /api/verify-payment
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	if txn := nrgin.Transaction(c); txn != nil {
		txn.AddAttribute("razorpay_order_id", req.RazorpayOrderID)
		txn.AddAttribute("razorpay_payment_id", req.RazorpayPaymentID)
	}

	confirmation, err := h.confirmationService.VerifyAndConfirm(c.Request.Context(), service.VerifyPaymentRequest{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := messageVerified
	if confirmation.AlreadyProcessed {
		message = messageAlreadyVerified
	}

	respondJSON(c, http.StatusOK, VerifyPaymentResponse{
		Success:          true,
		BookingID:        confirmation.BookingID,
		BookingReference: confirmation.BookingReference,
		PaymentID:        confirmation.PaymentID,
		Message:          message,
	})
}
