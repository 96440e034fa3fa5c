package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

// DELETE /api/products/:id (admin)
//
// Products referenced by order snapshots are never hard-deleted; the
// product is deactivated instead, which removes it from listings and
// blocks new cart additions.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Model(&models.Product{}).
			Where("id = ?", c.Param("id")).
			Update("is_active", false)
		if res.Error != nil {
			apierr.Respond(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apierr.Respond(c, apierr.NotFound("Product not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Product deleted"})
	}
}
