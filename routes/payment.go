package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentControllers "github.com/Ambreesh-Kumar/ecommerce-backend/controllers/payment"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
)

func SetupPaymentRoutes(r *gin.Engine, svc *services.PaymentService) {
	payments := r.Group("/api/payments")
	{
		// Token travels as a query parameter; the checkout page opens in
		// its own tab.
		payments.GET("/checkout/:orderId", paymentControllers.Checkout(svc))
		payments.POST("/verify", paymentControllers.Verify(svc))
	}

	// Landing pages the gateway redirects the shopper to.
	r.GET("/payment-success", paymentPage("Payment Successful", "Your payment was completed successfully."))
	r.GET("/payment-failed", paymentPage("Payment Failed", "Something went wrong during payment."))
	r.GET("/payment-cancelled", paymentPage("Payment Cancelled", "You closed the payment window."))
}

func paymentPage(title, body string) gin.HandlerFunc {
	page := "<h2>" + title + "</h2><p>" + body + "</p><p>You may safely close this tab.</p>"
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}
