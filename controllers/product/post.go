package productControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

type CreateProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Price         *float64 `json:"price" binding:"required"`
	DiscountPrice *float64 `json:"discount_price"`
	Image         string   `json:"image"`
	Stock         *int     `json:"stock" binding:"required"`
	CategoryID    string   `json:"category_id" binding:"required"`
}

// POST /api/products (admin)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("All required product fields must be provided"))
			return
		}
		if *input.Price < 0 || *input.Stock < 0 {
			apierr.Respond(c, apierr.BadRequest("Price and stock must be positive numbers"))
			return
		}
		if input.DiscountPrice != nil && *input.DiscountPrice >= *input.Price {
			apierr.Respond(c, apierr.BadRequest("Discount price must be less than price"))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierr.Respond(c, apierr.NotFound("Category not found"))
				return
			}
			apierr.Respond(c, err)
			return
		}
		if !category.IsActive {
			apierr.Respond(c, apierr.BadRequest("Category is not active"))
			return
		}

		slug := Slugify(input.Name)
		var existing models.Product
		if err := db.First(&existing, "slug = ? AND category_id = ?", slug, input.CategoryID).Error; err == nil {
			apierr.Respond(c, apierr.BadRequest("Product already exists in this category"))
			return
		}

		product := models.Product{
			ID:            uuid.NewString(),
			Name:          input.Name,
			Slug:          slug,
			Description:   input.Description,
			Price:         *input.Price,
			DiscountPrice: input.DiscountPrice,
			Image:         input.Image,
			Stock:         *input.Stock,
			CategoryID:    input.CategoryID,
			IsActive:      true,
		}
		if err := db.Create(&product).Error; err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Product created", "data": product})
	}
}

// Slugify lowercases the name and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
