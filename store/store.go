// Package store is the data-access layer. The core services speak to
// these interfaces so the order/payment orchestration can run inside a
// single transaction handle and be tested against in-memory fakes.
package store

import (
	"context"
	"errors"

	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrVersionConflict      = errors.New("cart was modified concurrently")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// ProductStore is the inventory ledger. Reserve and Release are the
// only writers of product stock anywhere in the system.
type ProductStore interface {
	FindActive(ctx context.Context, id string) (*models.Product, error)
	// FindActiveForUpdate locks the product row for the duration of the
	// surrounding transaction.
	FindActiveForUpdate(ctx context.Context, id string) (*models.Product, error)
	// Reserve atomically decrements stock, failing with
	// ErrInsufficientStock when fewer than qty units remain.
	Reserve(ctx context.Context, id string, qty int) error
	// Release atomically increments stock. Restoring is always safe, so
	// there is no upper bound check.
	Release(ctx context.Context, id string, qty int) error
}

type CartStore interface {
	FindActiveByUser(ctx context.Context, userID string) (*models.Cart, error)
	FindActiveByUserForUpdate(ctx context.Context, userID string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	// Save replaces the cart's items and derived fields, guarded by the
	// cart's version to avoid lost updates on concurrent mutation.
	Save(ctx context.Context, cart *models.Cart) error
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	OrderStatus   models.OrderStatus
	PaymentStatus models.PaymentStatus
	UserID        string
	Page          int
	Limit         int
}

type OrderStore interface {
	// Create inserts the order, failing with ErrDuplicateOrderNumber on
	// an order number collision.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	Save(ctx context.Context, order *models.Order) error
}

type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Payment, error)
	// FindCreatedByOrder returns the order's payment still in "created"
	// state, if any.
	FindCreatedByOrder(ctx context.Context, orderID string) (*models.Payment, error)
	Save(ctx context.Context, payment *models.Payment) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Store bundles the per-aggregate stores with a transaction runner.
// Inside Transaction, the callback receives a Store bound to the
// transaction; all writes through it commit or roll back together.
type Store interface {
	Products() ProductStore
	Carts() CartStore
	Orders() OrderStore
	Payments() PaymentStore
	Users() UserStore
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
