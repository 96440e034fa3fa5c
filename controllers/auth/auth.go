package authControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/middleware"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}

		var existing models.User
		if err := db.First(&existing, "email = ?", input.Email).Error; err == nil {
			apierr.Respond(c, apierr.BadRequest("Email is already registered"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			apierr.Respond(c, err)
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			apierr.Respond(c, err)
			return
		}

		token, err := middleware.IssueToken(user.ID, string(user.Role))
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"status": "success",
			"data":   gin.H{"user": user, "token": token},
		})
	}
}

// POST /api/auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", input.Email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierr.Respond(c, apierr.Unauthorized("Invalid email or password"))
				return
			}
			apierr.Respond(c, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			apierr.Respond(c, apierr.Unauthorized("Invalid email or password"))
			return
		}

		token, err := middleware.IssueToken(user.ID, string(user.Role))
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   gin.H{"user": user, "token": token},
		})
	}
}
