package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
)

type CreateOrderInput struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	PaymentMethod   string                 `json:"payment_method"`
}

// POST /api/orders/create
func CreateOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CreateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}
		if input.PaymentMethod == "" {
			input.PaymentMethod = string(models.PaymentMethodCOD)
		}
		method, err := models.ParsePaymentMethod(input.PaymentMethod)
		if err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid payment method"))
			return
		}

		order, err := svc.CreateFromCart(c.Request.Context(), userID, input.ShippingAddress, method)
		if err != nil {
			apierr.Respond(c, err)
			return
		}

		message := "Order placed successfully"
		if method == models.PaymentMethodOnline {
			message = "Order created, pending payment"
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "message": message, "data": order})
	}
}

// GET /api/orders/my
func GetMyOrders(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		orders, err := svc.GetMyOrders(c.Request.Context(), userID)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": orders})
	}
}

// GET /api/orders/:orderId
func GetMyOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		orderID := c.Param("orderId")

		order, err := svc.GetMyOrder(c.Request.Context(), orderID, userID)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": order})
	}
}

// PATCH /api/orders/:orderId/cancel
func CancelOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		orderID := c.Param("orderId")

		order, err := svc.Cancel(c.Request.Context(), orderID, userID, false)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Order cancelled",
			"data":    gin.H{"order_id": order.ID},
		})
	}
}
