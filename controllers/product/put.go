package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

type UpdateProductInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discount_price"`
	Image         *string  `json:"image"`
	CategoryID    *string  `json:"category_id"`
	IsActive      *bool    `json:"is_active"`
}

// PUT /api/products/:id (admin)
//
// Stock is deliberately absent from this input: all stock writes go
// through the order flow's reserve/release operations.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierr.Respond(c, apierr.NotFound("Product not found"))
				return
			}
			apierr.Respond(c, err)
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
			product.Slug = Slugify(*input.Name)
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			if *input.Price < 0 {
				apierr.Respond(c, apierr.BadRequest("Price must be a positive number"))
				return
			}
			product.Price = *input.Price
		}
		if input.DiscountPrice != nil {
			if *input.DiscountPrice >= product.Price {
				apierr.Respond(c, apierr.BadRequest("Discount price must be less than price"))
				return
			}
			product.DiscountPrice = input.DiscountPrice
		}
		if input.Image != nil {
			product.Image = *input.Image
		}
		if input.CategoryID != nil {
			product.CategoryID = *input.CategoryID
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := db.Omit("stock").Save(&product).Error; err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Product updated", "data": product})
	}
}
