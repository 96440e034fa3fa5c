package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/Ambreesh-Kumar/ecommerce-backend/controllers/product"
	"github.com/Ambreesh-Kumar/ecommerce-backend/middleware"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/api/products")
	{
		products.GET("", productControllers.GetProducts(db))
		products.GET("/:id", productControllers.GetProduct(db))

		admin := products.Group("", middleware.ValidateToken, middleware.RequireAdmin)
		{
			admin.POST("", productControllers.CreateProduct(db))
			admin.PUT("/:id", productControllers.UpdateProduct(db))
			admin.DELETE("/:id", productControllers.DeleteProduct(db))
		}
	}

	categories := r.Group("/api/categories")
	{
		categories.GET("", productControllers.GetCategories(db))

		admin := categories.Group("", middleware.ValidateToken, middleware.RequireAdmin)
		{
			admin.POST("", productControllers.CreateCategory(db))
			admin.PUT("/:id", productControllers.UpdateCategory(db))
			admin.DELETE("/:id", productControllers.DeleteCategory(db))
		}
	}
}
