package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/services"
)

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GET /api/cart
func GetCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		cart, err := svc.GetActiveCart(c.Request.Context(), userID)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": cart})
	}
}

// POST /api/cart/items
func AddItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}

		cart, err := svc.AddItem(c.Request.Context(), userID, input.ProductID, input.Quantity)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Item added to cart", "data": cart})
	}
}

// PATCH /api/cart/items/:productId
func UpdateItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		productID := c.Param("productId")

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid input: "+err.Error()))
			return
		}

		cart, err := svc.UpdateItem(c.Request.Context(), userID, productID, input.Quantity)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Cart item updated", "data": cart})
	}
}

// DELETE /api/cart/items/:productId
func RemoveItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		productID := c.Param("productId")

		cart, err := svc.RemoveItem(c.Request.Context(), userID, productID)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Cart item removed", "data": cart})
	}
}

// DELETE /api/cart
func ClearCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		cart, err := svc.Clear(c.Request.Context(), userID)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Cart cleared", "data": cart})
	}
}
