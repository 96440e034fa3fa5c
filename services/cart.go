package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
	"github.com/Ambreesh-Kumar/ecommerce-backend/store"
)

// CartService owns the user's in-progress selection. Stock checks here
// are advisory pre-checks; the binding check happens under lock at
// order creation.
type CartService struct {
	store store.Store
}

func NewCartService(s store.Store) *CartService {
	return &CartService{store: s}
}

// GetActiveCart returns the user's active cart, or an empty cart view
// with zero totals. Read-only access never creates a row.
func (s *CartService) GetActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.Carts().FindActiveByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}, IsActive: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem merges the product into an existing line or appends a new
// one, capturing the product's current name, image and effective price.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apierr.BadRequest("Quantity must be at least 1")
	}

	product, err := s.store.Products().FindActive(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Carts().FindActiveByUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Carts are created lazily on first add.
		cart = &models.Cart{UserID: userID, IsActive: true}
		if err := s.store.Carts().Create(ctx, cart); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if line := findLine(cart, productID); line != nil {
		combined := line.Quantity + quantity
		if combined > product.Stock {
			return nil, apierr.BadRequest("Insufficient stock for " + product.Name)
		}
		line.Quantity = combined
		line.AddedAt = time.Now()
	} else {
		if quantity > product.Stock {
			return nil, apierr.BadRequest("Insufficient stock for " + product.Name)
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			Price:        product.EffectivePrice(),
			Quantity:     quantity,
			AddedAt:      time.Now(),
		})
	}

	return s.save(ctx, cart)
}

// UpdateItem replaces the quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apierr.BadRequest("Quantity must be at least 1")
	}

	cart, err := s.requireActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := findLine(cart, productID)
	if line == nil {
		return nil, apierr.NotFound("Item not found in cart")
	}

	product, err := s.store.Products().FindActive(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, apierr.BadRequest("Insufficient stock for " + product.Name)
	}

	line.Quantity = quantity
	return s.save(ctx, cart)
}

// RemoveItem drops a line; a cart emptied by removal is deactivated.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.requireActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, apierr.NotFound("Item not found in cart")
	}

	cart.Items = kept
	if len(cart.Items) == 0 {
		cart.IsActive = false
	}
	return s.save(ctx, cart)
}

// Clear empties the cart and deactivates it.
func (s *CartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.requireActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = nil
	cart.IsActive = false
	return s.save(ctx, cart)
}

func (s *CartService) requireActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.Carts().FindActiveByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFound("No active cart found")
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apierr.NotFound("No active cart found")
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.Recompute()
	if err := s.store.Carts().Save(ctx, cart); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			log.Warn().Str("user_id", cart.UserID).Msg("cart version conflict")
			return nil, apierr.Conflict("Cart was modified concurrently, please retry")
		}
		return nil, err
	}
	return cart, nil
}

func findLine(cart *models.Cart, productID string) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}
