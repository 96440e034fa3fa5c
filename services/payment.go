package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/events"
	"github.com/Ambreesh-Kumar/ecommerce-backend/gateway"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
	"github.com/Ambreesh-Kumar/ecommerce-backend/store"
)

// PaymentService bridges orders awaiting online payment to the
// external gateway and reconciles the gateway's signed confirmation
// back onto the Payment and Order records.
type PaymentService struct {
	store   store.Store
	gateway gateway.Gateway
	events  events.Publisher
}

func NewPaymentService(s store.Store, gw gateway.Gateway, pub events.Publisher) *PaymentService {
	return &PaymentService{store: s, gateway: gw, events: pub}
}

// CheckoutSession holds the gateway-facing parameters the client
// completes payment against. Amount is in minor units (paise).
type CheckoutSession struct {
	KeyID          string  `json:"key_id"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	GatewayOrderID string  `json:"gateway_order_id"`
	PaymentID      string  `json:"payment_id"`
	OrderID        string  `json:"order_id"`
	CustomerName   string  `json:"customer_name"`
	CustomerEmail  string  `json:"customer_email"`
}

// CreateCheckout prepares a gateway payment intent for an eligible
// order. An existing payment still in "created" state is reused so
// repeated checkout visits never create duplicate gateway intents.
func (s *PaymentService) CreateCheckout(ctx context.Context, orderID, userID string) (*CheckoutSession, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}

	order, err := s.store.Orders().FindByIDForUser(ctx, orderID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFound("Order not found or not eligible for online payment")
	}
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, apierr.BadRequest("Order is already paid")
	}
	if order.PaymentMethod != models.PaymentMethodOnline || order.PaymentStatus != models.PaymentStatusPending {
		return nil, apierr.NotFound("Order not found or not eligible for online payment")
	}

	session := &CheckoutSession{
		KeyID:         s.gateway.KeyID(),
		OrderID:       order.ID,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
	}

	existing, err := s.store.Payments().FindCreatedByOrder(ctx, order.ID)
	if err == nil {
		session.Amount = int64(math.Round(existing.Amount * 100))
		session.Currency = existing.Currency
		session.GatewayOrderID = existing.GatewayOrderID
		session.PaymentID = existing.ID
		return session, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, int64(math.Round(order.TotalAmount*100)), "INR", order.OrderNumber)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("gateway intent creation failed")
		return nil, apierr.Gateway("Failed to initiate payment with gateway")
	}

	payment := &models.Payment{
		ID:             uuid.NewString(),
		OrderID:        order.ID,
		UserID:         userID,
		GatewayOrderID: intent.ID,
		Amount:         float64(intent.Amount) / 100,
		Currency:       intent.Currency,
		Status:         models.PaymentStateCreated,
	}
	if err := s.store.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}

	session.Amount = intent.Amount
	session.Currency = intent.Currency
	session.GatewayOrderID = intent.ID
	session.PaymentID = payment.ID
	return session, nil
}

// VerifyRequest is the gateway confirmation payload relayed by the
// client after completing payment.
type VerifyRequest struct {
	PaymentID        string `json:"payment_id"`
	OrderID          string `json:"order_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}

func (r VerifyRequest) complete() bool {
	return r.PaymentID != "" && r.OrderID != "" && r.GatewayOrderID != "" &&
		r.GatewayPaymentID != "" && r.GatewaySignature != ""
}

// Verify is the sole trust boundary for confirming money movement: no
// other path may mark an order paid. It is idempotent under duplicate
// delivery; a replay for an already-paid payment succeeds without
// touching any state.
func (s *PaymentService) Verify(ctx context.Context, req VerifyRequest) error {
	if !req.complete() {
		return apierr.BadRequest("Incomplete payment payload")
	}

	payment, err := s.store.Payments().FindByID(ctx, req.PaymentID)
	if errors.Is(err, store.ErrNotFound) {
		return apierr.NotFound("Payment not found")
	}
	if err != nil {
		return err
	}

	if payment.Status == models.PaymentStatePaid {
		return nil
	}
	if payment.OrderID != req.OrderID || payment.GatewayOrderID != req.GatewayOrderID {
		// A valid signature lifted from another order must not be
		// replayable against this payment.
		return apierr.BadRequest("Payment does not match this order")
	}

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		payment.Status = models.PaymentStateFailed
		if saveErr := s.store.Payments().Save(ctx, payment); saveErr != nil {
			log.Error().Err(saveErr).Str("payment_id", payment.ID).Msg("failed to record failed payment")
		}
		log.Warn().Str("payment_id", payment.ID).Str("order_id", payment.OrderID).Msg("payment signature mismatch")
		return apierr.BadRequest("Invalid payment signature")
	}

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		locked, err := tx.Payments().FindByIDForUpdate(ctx, payment.ID)
		if err != nil {
			return err
		}
		if locked.Status == models.PaymentStatePaid {
			// A concurrent delivery of the same confirmation won.
			return nil
		}

		locked.Status = models.PaymentStatePaid
		locked.GatewayPaymentID = req.GatewayPaymentID
		locked.GatewaySignature = req.GatewaySignature
		if err := tx.Payments().Save(ctx, locked); err != nil {
			return err
		}

		order, err = tx.Orders().FindByIDForUpdate(ctx, locked.OrderID)
		if err != nil {
			return err
		}
		order.PaymentStatus = models.PaymentStatusPaid
		order.OrderStatus = models.OrderStatusConfirmed
		return tx.Orders().Save(ctx, order)
	})
	if err != nil {
		return err
	}

	if order != nil {
		payload := map[string]interface{}{
			"order_id":   order.ID,
			"payment_id": payment.ID,
			"amount":     payment.Amount,
			"currency":   payment.Currency,
		}
		if pubErr := s.events.Publish(ctx, events.PaymentPaid, payload); pubErr != nil {
			log.Error().Err(pubErr).Str("payment_id", payment.ID).Msg("failed to publish event")
		}
		log.Info().Str("order_id", order.ID).Str("payment_id", payment.ID).Msg("payment verified")
	}
	return nil
}
