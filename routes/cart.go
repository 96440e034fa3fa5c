package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/Ambreesh-Kumar/ecommerce-backend/controllers/cart"
	"github.com/Ambreesh-Kumar/ecommerce-backend/middleware"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
)

func SetupCartRoutes(r *gin.Engine, svc *services.CartService) {
	cart := r.Group("/api/cart", middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCart(svc))
		cart.POST("/items", cartControllers.AddItem(svc))
		cart.PATCH("/items/:productId", cartControllers.UpdateItem(svc))
		cart.DELETE("/items/:productId", cartControllers.RemoveItem(svc))
		cart.DELETE("", cartControllers.ClearCart(svc))
	}
}
