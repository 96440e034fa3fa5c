package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
	"github.com/Ambreesh-Kumar/ecommerce-backend/store"
)

type AdminUpdateInput struct {
	OrderStatus   *string `json:"order_status"`
	PaymentStatus *string `json:"payment_status"`
}

// GET /api/orders?page=&limit=&order_status=&payment_status=&user_id=
func ListOrders(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		filter := store.OrderFilter{
			OrderStatus:   models.OrderStatus(c.Query("order_status")),
			PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
			UserID:        c.Query("user_id"),
			Page:          page,
			Limit:         limit,
		}

		orders, total, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   orders,
			"meta":   gin.H{"total": total, "page": page, "limit": limit},
		})
	}
}

// GET /api/orders/admin/:orderId
func GetOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": order})
	}
}

// PATCH /api/orders/admin/:orderId
func UpdateOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetString("user_id")
		orderID := c.Param("orderId")

		var input AdminUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), orderID, actorID, input.OrderStatus, input.PaymentStatus)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Order updated", "data": order})
	}
}
