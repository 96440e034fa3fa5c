package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authControllers "github.com/Ambreesh-Kumar/ecommerce-backend/controllers/auth"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authControllers.Register(db))
		auth.POST("/login", authControllers.Login(db))
	}
}
