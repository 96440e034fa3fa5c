package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ambreesh-Kumar/ecommerce-backend/apierr"
	"github.com/Ambreesh-Kumar/ecommerce-backend/events"
	"github.com/Ambreesh-Kumar/ecommerce-backend/gateway"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

const testGatewaySecret = "test_key_secret"

func seedUser(st *memStore, id, name, email string) {
	st.state.users[id] = &models.User{ID: id, Name: name, Email: email, Role: models.RoleUser}
}

func seedOnlineOrder(st *memStore, id, userID string, total float64) *models.Order {
	o := &models.Order{
		ID:            id,
		UserID:        userID,
		OrderNumber:   "ORD-1700000000000-12345",
		TotalAmount:   total,
		PaymentMethod: models.PaymentMethodOnline,
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusPlaced,
		IsActive:      true,
	}
	st.state.orders[id] = o
	return o
}

func newPaymentFixture(t *testing.T) (*memStore, *fakeGateway, *capturePublisher, *PaymentService) {
	t.Helper()
	st := newMemStore()
	gw := &fakeGateway{secret: testGatewaySecret}
	pub := &capturePublisher{}
	return st, gw, pub, NewPaymentService(st, gw, pub)
}

func TestPaymentServiceCreateCheckout(t *testing.T) {
	st, gw, _, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	seedOnlineOrder(st, "o1", "u1", 225.5)

	session, err := svc.CreateCheckout(context.Background(), "o1", "u1")
	require.NoError(t, err)

	assert.Equal(t, gw.KeyID(), session.KeyID)
	assert.Equal(t, int64(22550), session.Amount)
	assert.Equal(t, "INR", session.Currency)
	assert.Equal(t, "order_gw_1", session.GatewayOrderID)
	assert.Equal(t, "o1", session.OrderID)
	assert.NotEmpty(t, session.PaymentID)
	assert.Equal(t, "Asha Verma", session.CustomerName)
	assert.Equal(t, "asha@example.com", session.CustomerEmail)

	payment := st.state.payments[session.PaymentID]
	require.NotNil(t, payment)
	assert.Equal(t, models.PaymentStateCreated, payment.Status)
	assert.Equal(t, 225.5, payment.Amount)
	assert.Equal(t, "INR", payment.Currency)
}

func TestPaymentServiceCreateCheckoutReusesCreatedPayment(t *testing.T) {
	st, gw, _, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	seedOnlineOrder(st, "o1", "u1", 500)
	ctx := context.Background()

	first, err := svc.CreateCheckout(ctx, "o1", "u1")
	require.NoError(t, err)
	second, err := svc.CreateCheckout(ctx, "o1", "u1")
	require.NoError(t, err)

	assert.Equal(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, first.GatewayOrderID, second.GatewayOrderID)
	assert.Equal(t, first.Amount, second.Amount)
	// Only one gateway intent was ever created.
	assert.Equal(t, 1, gw.intents)
	assert.Len(t, st.state.payments, 1)
}

func TestPaymentServiceCreateCheckoutEligibility(t *testing.T) {
	st, _, _, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	ctx := context.Background()

	var apiErr *apierr.Error

	// Unknown user.
	seedOnlineOrder(st, "o0", "ghost", 100)
	_, err := svc.CreateCheckout(ctx, "o0", "ghost")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)

	// Someone else's order reads as not found.
	_, err = svc.CreateCheckout(ctx, "o0", "u1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	// Already paid is reported distinctly.
	paid := seedOnlineOrder(st, "o1", "u1", 100)
	paid.PaymentStatus = models.PaymentStatusPaid
	_, err = svc.CreateCheckout(ctx, "o1", "u1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Order is already paid", apiErr.Message)

	// COD orders have no online checkout.
	cod := seedOnlineOrder(st, "o2", "u1", 100)
	cod.PaymentMethod = models.PaymentMethodCOD
	_, err = svc.CreateCheckout(ctx, "o2", "u1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestPaymentServiceCreateCheckoutGatewayFailure(t *testing.T) {
	st, gw, _, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	seedOnlineOrder(st, "o1", "u1", 100)
	gw.createErr = errors.New("gateway down")

	var apiErr *apierr.Error
	_, err := svc.CreateCheckout(context.Background(), "o1", "u1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.Status)
	assert.Empty(t, st.state.payments)
}

func verifyRequestFor(payment *models.Payment, gatewayPaymentID string) VerifyRequest {
	return VerifyRequest{
		PaymentID:        payment.ID,
		OrderID:          payment.OrderID,
		GatewayOrderID:   payment.GatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		GatewaySignature: gateway.Sign(testGatewaySecret, payment.GatewayOrderID, gatewayPaymentID),
	}
}

func TestPaymentServiceVerifyMarksOrderPaid(t *testing.T) {
	st, _, pub, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	seedOnlineOrder(st, "o1", "u1", 500)
	ctx := context.Background()

	session, err := svc.CreateCheckout(ctx, "o1", "u1")
	require.NoError(t, err)
	payment := st.state.payments[session.PaymentID]

	err = svc.Verify(ctx, verifyRequestFor(payment, "pay_abc123"))
	require.NoError(t, err)

	stored := st.state.payments[session.PaymentID]
	assert.Equal(t, models.PaymentStatePaid, stored.Status)
	assert.Equal(t, "pay_abc123", stored.GatewayPaymentID)
	assert.NotEmpty(t, stored.GatewaySignature)

	order := st.state.orders["o1"]
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, order.OrderStatus)

	assert.Equal(t, 1, pub.count(events.PaymentPaid))
}

func TestPaymentServiceVerifyIsIdempotent(t *testing.T) {
	st, _, pub, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	seedOnlineOrder(st, "o1", "u1", 500)
	ctx := context.Background()

	session, err := svc.CreateCheckout(ctx, "o1", "u1")
	require.NoError(t, err)
	req := verifyRequestFor(st.state.payments[session.PaymentID], "pay_abc123")

	require.NoError(t, svc.Verify(ctx, req))
	require.NoError(t, svc.Verify(ctx, req))

	assert.Equal(t, models.PaymentStatePaid, st.state.payments[session.PaymentID].Status)
	assert.Equal(t, 1, pub.count(events.PaymentPaid))
}

func TestPaymentServiceVerifyRejectsTamperedSignature(t *testing.T) {
	st, _, pub, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	seedOnlineOrder(st, "o1", "u1", 500)
	ctx := context.Background()

	session, err := svc.CreateCheckout(ctx, "o1", "u1")
	require.NoError(t, err)

	req := verifyRequestFor(st.state.payments[session.PaymentID], "pay_abc123")
	req.GatewaySignature = "deadbeef" + req.GatewaySignature[8:]

	var apiErr *apierr.Error
	err = svc.Verify(ctx, req)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Invalid payment signature", apiErr.Message)

	// The payment is marked failed; the order is untouched and may be
	// retried with a fresh checkout.
	assert.Equal(t, models.PaymentStateFailed, st.state.payments[session.PaymentID].Status)
	order := st.state.orders["o1"]
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPlaced, order.OrderStatus)
	assert.Equal(t, 0, pub.count(events.PaymentPaid))
}

func TestPaymentServiceVerifyRejectsCrossOrderReplay(t *testing.T) {
	st, _, _, svc := newPaymentFixture(t)
	seedUser(st, "u1", "Asha Verma", "asha@example.com")
	seedOnlineOrder(st, "o1", "u1", 500)
	seedOnlineOrder(st, "o2", "u1", 300)
	ctx := context.Background()

	s1, err := svc.CreateCheckout(ctx, "o1", "u1")
	require.NoError(t, err)
	s2, err := svc.CreateCheckout(ctx, "o2", "u1")
	require.NoError(t, err)

	// A signature valid for o2's gateway order presented against o1's
	// payment record must not mark o1 paid.
	req := verifyRequestFor(st.state.payments[s2.PaymentID], "pay_other")
	req.PaymentID = s1.PaymentID

	var apiErr *apierr.Error
	err = svc.Verify(ctx, req)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Payment does not match this order", apiErr.Message)
	assert.Equal(t, models.PaymentStatusPending, st.state.orders["o1"].PaymentStatus)
}

func TestPaymentServiceVerifyInputErrors(t *testing.T) {
	_, _, _, svc := newPaymentFixture(t)
	ctx := context.Background()

	var apiErr *apierr.Error

	err := svc.Verify(ctx, VerifyRequest{PaymentID: "p1"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Incomplete payment payload", apiErr.Message)

	err = svc.Verify(ctx, VerifyRequest{
		PaymentID:        "missing",
		OrderID:          "o1",
		GatewayOrderID:   "order_gw_1",
		GatewayPaymentID: "pay_x",
		GatewaySignature: "sig",
	})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}
