package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/events"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
	"github.com/Ambreesh-Kumar/ecommerce-backend/store"
)

// orderNumberAttempts bounds regeneration when a generated order
// number collides with the unique index.
const orderNumberAttempts = 5

type OrderService struct {
	store  store.Store
	events events.Publisher
}

func NewOrderService(s store.Store, pub events.Publisher) *OrderService {
	return &OrderService{store: s, events: pub}
}

// CreateFromCart converts the user's active cart into a durable order.
// The whole read-check-write sequence runs in one transaction: cart
// re-fetch, per-item stock check and reservation, order insert, cart
// clear. Stock is reserved at creation for both COD and ONLINE orders
// so inventory cannot be oversold while a payment is pending; a
// cancelled or abandoned order releases it.
func (s *OrderService) CreateFromCart(ctx context.Context, userID string, address models.ShippingAddress, method models.PaymentMethod) (*models.Order, error) {
	if !address.Complete() {
		return nil, apierr.BadRequest("Complete shipping address is required")
	}
	if address.Country == "" {
		address.Country = "India"
	}
	if method != models.PaymentMethodCOD && method != models.PaymentMethodOnline {
		return nil, apierr.BadRequest("Invalid payment method")
	}

	var order *models.Order
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err = s.createOnce(ctx, userID, address, method)
		if !errors.Is(err, store.ErrDuplicateOrderNumber) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderCreated, order)
	log.Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("user_id", userID).
		Str("payment_method", string(method)).
		Msg("order created")
	return order, nil
}

func (s *OrderService) createOnce(ctx context.Context, userID string, address models.ShippingAddress, method models.PaymentMethod) (*models.Order, error) {
	var order *models.Order

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		cart, err := tx.Carts().FindActiveByUserForUpdate(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return apierr.BadRequest("Cart is empty")
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apierr.BadRequest("Cart is empty")
		}

		var items []models.OrderItem
		var subtotal float64
		totalItems := 0

		for _, line := range cart.Items {
			product, err := tx.Products().FindActiveForUpdate(ctx, line.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return apierr.BadRequest(fmt.Sprintf("Product %s is no longer available", line.ProductName))
			}
			if err != nil {
				return err
			}

			if err := tx.Products().Reserve(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, store.ErrInsufficientStock) {
					return apierr.BadRequest("Insufficient stock for " + line.ProductName)
				}
				return err
			}

			itemSubtotal := line.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID:    line.ProductID,
				ProductName:  line.ProductName,
				ProductImage: line.ProductImage,
				Price:        line.Price,
				Quantity:     line.Quantity,
				Subtotal:     itemSubtotal,
			})
			subtotal += itemSubtotal
			totalItems += line.Quantity
		}

		discountAmount := subtotal * cart.Discount / 100

		order = &models.Order{
			ID:              uuid.NewString(),
			UserID:          userID,
			OrderNumber:     newOrderNumber(),
			Items:           items,
			TotalItems:      totalItems,
			Subtotal:        subtotal,
			Discount:        cart.Discount,
			DiscountAmount:  discountAmount,
			TotalAmount:     subtotal - discountAmount,
			PaymentMethod:   method,
			PaymentStatus:   models.PaymentStatusPending,
			OrderStatus:     models.OrderStatusPlaced,
			ShippingAddress: address,
			IsActive:        true,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		cart.Items = nil
		cart.IsActive = false
		cart.Recompute()
		return tx.Carts().Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel voids an order that has not shipped. Stock restoration is
// best-effort per item: an item that fails to restore is logged as an
// operational anomaly but does not block the cancellation.
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID string, isAdmin bool) (*models.Order, error) {
	var order *models.Order

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		order, err = tx.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			return apierr.NotFound("Order not found")
		}
		if err != nil {
			return err
		}
		if !isAdmin && order.UserID != actorID {
			return apierr.NotFound("Order not found")
		}

		if !order.OrderStatus.Cancellable() {
			return apierr.Conflict(fmt.Sprintf("Order cannot be cancelled in %s status", order.OrderStatus))
		}

		cancelOrder(ctx, tx, order, actorID)
		return tx.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderCancelled, order)
	log.Info().Str("order_id", order.ID).Str("cancelled_by", actorID).Msg("order cancelled")
	return order, nil
}

// cancelOrder applies the cancellation effects in place: stock
// restoration, refund flagging for online payments, and visibility.
func cancelOrder(ctx context.Context, tx store.Store, order *models.Order, actorID string) {
	for _, item := range order.Items {
		if err := tx.Products().Release(ctx, item.ProductID, item.Quantity); err != nil {
			log.Error().Err(err).
				Str("order_id", order.ID).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("failed to restore stock on cancellation, needs reconciliation")
		}
	}

	now := time.Now()
	order.OrderStatus = models.OrderStatusCancelled
	if order.PaymentMethod == models.PaymentMethodOnline {
		// The actual refund to the gateway is handled out-of-band.
		order.PaymentStatus = models.PaymentStatusRefunded
	}
	order.CancelledAt = &now
	order.CancelledBy = actorID
	order.IsActive = false
}

// UpdateStatus is the administrative escape hatch: both statuses are
// validated against their enums but transitions are not restricted,
// except that entering cancelled triggers the full cancellation path.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, actorID string, orderStatus, paymentStatus *string) (*models.Order, error) {
	var newOrderStatus models.OrderStatus
	var newPaymentStatus models.PaymentStatus
	var err error

	if orderStatus != nil {
		if newOrderStatus, err = models.ParseOrderStatus(*orderStatus); err != nil {
			return nil, apierr.BadRequest("Invalid order status")
		}
	}
	if paymentStatus != nil {
		if newPaymentStatus, err = models.ParsePaymentStatus(*paymentStatus); err != nil {
			return nil, apierr.BadRequest("Invalid payment status")
		}
	}
	if orderStatus == nil && paymentStatus == nil {
		return nil, apierr.BadRequest("Nothing to update")
	}

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		order, err = tx.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			return apierr.NotFound("Order not found")
		}
		if err != nil {
			return err
		}

		if orderStatus != nil {
			if newOrderStatus == models.OrderStatusCancelled && order.OrderStatus != models.OrderStatusCancelled {
				cancelOrder(ctx, tx, order, actorID)
			} else {
				order.OrderStatus = newOrderStatus
			}
		}
		if paymentStatus != nil {
			order.PaymentStatus = newPaymentStatus
		}
		return tx.Orders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if order.OrderStatus == models.OrderStatusCancelled {
		s.publish(ctx, events.OrderCancelled, order)
	}
	return order, nil
}

func (s *OrderService) GetMyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

func (s *OrderService) GetMyOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.store.Orders().FindByIDForUser(ctx, orderID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFound("Order not found")
	}
	return order, err
}

func (s *OrderService) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, int64, error) {
	if filter.OrderStatus != "" {
		if _, err := models.ParseOrderStatus(string(filter.OrderStatus)); err != nil {
			return nil, 0, apierr.BadRequest("Invalid order status filter")
		}
	}
	if filter.PaymentStatus != "" {
		if _, err := models.ParsePaymentStatus(string(filter.PaymentStatus)); err != nil {
			return nil, 0, apierr.BadRequest("Invalid payment status filter")
		}
	}
	return s.store.Orders().List(ctx, filter)
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.Orders().FindByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFound("Order not found")
	}
	return order, err
}

func (s *OrderService) publish(ctx context.Context, routingKey string, order *models.Order) {
	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"status":       order.OrderStatus,
	}
	if err := s.events.Publish(ctx, routingKey, payload); err != nil {
		log.Error().Err(err).Str("event", routingKey).Str("order_id", order.ID).Msg("failed to publish event")
	}
}

// newOrderNumber generates ORD-<unix-ms>-<5-digit random>. Collisions
// are possible in principle; the unique index plus bounded
// regeneration in CreateFromCart handles them.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), 10000+rand.Intn(90000))
}
