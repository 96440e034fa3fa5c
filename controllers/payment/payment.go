package paymentControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/middleware"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
)

// GET /api/payments/checkout/:orderId?token=...
//
// The checkout page is opened in a separate browser tab, so the access
// token travels as a query parameter rather than a header.
func Checkout(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			apierr.Respond(c, apierr.Unauthorized("Access token required"))
			return
		}
		claims, err := middleware.ParseToken(token)
		if err != nil {
			apierr.Respond(c, apierr.Unauthorized("Invalid or expired token"))
			return
		}

		session, err := svc.CreateCheckout(c.Request.Context(), c.Param("orderId"), claims.UserID)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": session})
	}
}

type VerifyInput struct {
	PaymentID        string `json:"payment_id"`
	OrderID          string `json:"order_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}

// POST /api/payments/verify
func Verify(svc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}

		err := svc.Verify(c.Request.Context(), services.VerifyRequest{
			PaymentID:        input.PaymentID,
			OrderID:          input.OrderID,
			GatewayOrderID:   input.GatewayOrderID,
			GatewayPaymentID: input.GatewayPaymentID,
			GatewaySignature: input.GatewaySignature,
		})
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Payment verified successfully"})
	}
}
