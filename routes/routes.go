package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cartSvc *services.CartService, orderSvc *services.OrderService, paymentSvc *services.PaymentService) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Catalog routes (public reads, admin writes)
	SetupProductRoutes(r, db)

	// Cart routes (JWT-protected)
	SetupCartRoutes(r, cartSvc)

	// Order routes (JWT-protected, admin subset role-gated)
	SetupOrderRoutes(r, orderSvc)

	// Payment checkout and verification
	SetupPaymentRoutes(r, paymentSvc)
}
