package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/Ambreesh-Kumar/ecommerce-backend/controllers/order"
	"github.com/Ambreesh-Kumar/ecommerce-backend/middleware"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
)

func SetupOrderRoutes(r *gin.Engine, svc *services.OrderService) {
	orders := r.Group("/api/orders", middleware.ValidateToken)
	{
		// Customer-facing
		orders.POST("/create", orderControllers.CreateOrder(svc))
		orders.GET("/my", orderControllers.GetMyOrders(svc))
		orders.GET("/:orderId", orderControllers.GetMyOrder(svc))
		orders.PATCH("/:orderId/cancel", orderControllers.CancelOrder(svc))

		// Administrative
		admin := orders.Group("", middleware.RequireAdmin)
		{
			admin.GET("", orderControllers.ListOrders(svc))
			admin.GET("/admin/:orderId", orderControllers.GetOrder(svc))
			admin.PATCH("/admin/:orderId", orderControllers.UpdateOrder(svc))
		}
	}
}
