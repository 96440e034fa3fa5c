package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GET /api/categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Where("is_active = ?", true).Order("name").Find(&categories).Error; err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": categories})
	}
}

// POST /api/categories (admin)
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Category name is required"))
			return
		}

		slug := Slugify(input.Name)
		var existing models.Category
		if err := db.First(&existing, "slug = ?", slug).Error; err == nil {
			apierr.Respond(c, apierr.BadRequest("Category already exists"))
			return
		}

		category := models.Category{
			ID:          uuid.NewString(),
			Name:        input.Name,
			Slug:        slug,
			Description: input.Description,
			IsActive:    true,
		}
		if err := db.Create(&category).Error; err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Category created", "data": category})
	}
}

// PUT /api/categories/:id (admin)
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierr.Respond(c, apierr.NotFound("Category not found"))
				return
			}
			apierr.Respond(c, err)
			return
		}

		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Category name is required"))
			return
		}

		category.Name = input.Name
		category.Slug = Slugify(input.Name)
		category.Description = input.Description
		if err := db.Save(&category).Error; err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Category updated", "data": category})
	}
}

// DELETE /api/categories/:id (admin)
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Model(&models.Category{}).
			Where("id = ?", c.Param("id")).
			Update("is_active", false)
		if res.Error != nil {
			apierr.Respond(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apierr.Respond(c, apierr.NotFound("Category not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Category deleted"})
	}
}
