package services

import (
	"context"
	"crypto/hmac"
	"fmt"
	"sync"

	"github.com/Ambreesh-Kumar/ecommerce-backend/gateway"
	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
	"github.com/Ambreesh-Kumar/ecommerce-backend/store"
)

// memStore is an in-memory store.Store. Transaction takes a snapshot
// of the whole state and restores it when the callback fails, so the
// all-or-nothing properties of the real database transaction hold in
// tests too.
type memStore struct {
	state *memState
}

type memState struct {
	mu       sync.Mutex
	products map[string]*models.Product
	carts    map[string]*models.Cart // keyed by user id, one cart per user
	orders   map[string]*models.Order
	payments map[string]*models.Payment
	users    map[string]*models.User

	nextCartID uint

	// Failure injection.
	failOrderCreates int              // next N order creates fail with ErrDuplicateOrderNumber
	releaseErrs      map[string]error // product id -> error returned by Release
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		products:    map[string]*models.Product{},
		carts:       map[string]*models.Cart{},
		orders:      map[string]*models.Order{},
		payments:    map[string]*models.Payment{},
		users:       map[string]*models.User{},
		releaseErrs: map[string]error{},
	}}
}

func (m *memStore) Products() store.ProductStore { return (*memProducts)(m) }
func (m *memStore) Carts() store.CartStore       { return (*memCarts)(m) }
func (m *memStore) Orders() store.OrderStore     { return (*memOrders)(m) }
func (m *memStore) Payments() store.PaymentStore { return (*memPayments)(m) }
func (m *memStore) Users() store.UserStore       { return (*memUsers)(m) }

func (m *memStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	snapshot := m.state.clone()
	if err := fn(m); err != nil {
		m.state.restore(snapshot)
		return err
	}
	return nil
}

func (s *memState) clone() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &memState{
		products:         map[string]*models.Product{},
		carts:            map[string]*models.Cart{},
		orders:           map[string]*models.Order{},
		payments:         map[string]*models.Payment{},
		users:            s.users,
		nextCartID:       s.nextCartID,
		failOrderCreates: s.failOrderCreates,
		releaseErrs:      s.releaseErrs,
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.carts {
		c.carts[k] = copyCart(v)
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.payments {
		c.payments[k] = copyPayment(v)
	}
	return c
}

func (s *memState) restore(snapshot *memState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snapshot.products
	s.carts = snapshot.carts
	s.orders = snapshot.orders
	s.payments = snapshot.payments
	s.nextCartID = snapshot.nextCartID
}

func copyProduct(p *models.Product) *models.Product {
	c := *p
	return &c
}

func copyCart(cart *models.Cart) *models.Cart {
	c := *cart
	c.Items = append([]models.CartItem(nil), cart.Items...)
	return &c
}

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	return &c
}

func copyPayment(p *models.Payment) *models.Payment {
	c := *p
	return &c
}

// ---- products ----

type memProducts memStore

func (m *memProducts) FindActive(ctx context.Context, id string) (*models.Product, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	p, ok := m.state.products[id]
	if !ok || !p.IsActive {
		return nil, store.ErrNotFound
	}
	return copyProduct(p), nil
}

func (m *memProducts) FindActiveForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return m.FindActive(ctx, id)
}

func (m *memProducts) Reserve(ctx context.Context, id string, qty int) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	p, ok := m.state.products[id]
	if !ok || p.Stock < qty {
		return store.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (m *memProducts) Release(ctx context.Context, id string, qty int) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if err := m.state.releaseErrs[id]; err != nil {
		return err
	}
	if p, ok := m.state.products[id]; ok {
		p.Stock += qty
	}
	return nil
}

// ---- carts ----

type memCarts memStore

func (m *memCarts) FindActiveByUser(ctx context.Context, userID string) (*models.Cart, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	c, ok := m.state.carts[userID]
	if !ok || !c.IsActive {
		return nil, store.ErrNotFound
	}
	return copyCart(c), nil
}

func (m *memCarts) FindActiveByUserForUpdate(ctx context.Context, userID string) (*models.Cart, error) {
	return m.FindActiveByUser(ctx, userID)
}

func (m *memCarts) Create(ctx context.Context, cart *models.Cart) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.nextCartID++
	cart.ID = m.state.nextCartID
	m.state.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (m *memCarts) Save(ctx context.Context, cart *models.Cart) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	current, ok := m.state.carts[cart.UserID]
	if !ok || current.Version != cart.Version {
		return store.ErrVersionConflict
	}
	cart.Version++
	m.state.carts[cart.UserID] = copyCart(cart)
	return nil
}

// ---- orders ----

type memOrders memStore

func (m *memOrders) Create(ctx context.Context, order *models.Order) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if m.state.failOrderCreates > 0 {
		m.state.failOrderCreates--
		return store.ErrDuplicateOrderNumber
	}
	for _, existing := range m.state.orders {
		if existing.OrderNumber == order.OrderNumber {
			return store.ErrDuplicateOrderNumber
		}
	}
	m.state.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *memOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	o, ok := m.state.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *memOrders) FindByIDForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	o, ok := m.state.orders[id]
	if !ok || o.UserID != userID || !o.IsActive {
		return nil, store.ErrNotFound
	}
	return copyOrder(o), nil
}

func (m *memOrders) FindByIDForUpdate(ctx context.Context, id string) (*models.Order, error) {
	return m.FindByID(ctx, id)
}

func (m *memOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var orders []models.Order
	for _, o := range m.state.orders {
		if o.UserID == userID {
			orders = append(orders, *copyOrder(o))
		}
	}
	return orders, nil
}

func (m *memOrders) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, int64, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var orders []models.Order
	for _, o := range m.state.orders {
		if filter.OrderStatus != "" && o.OrderStatus != filter.OrderStatus {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		orders = append(orders, *copyOrder(o))
	}
	return orders, int64(len(orders)), nil
}

func (m *memOrders) Save(ctx context.Context, order *models.Order) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.orders[order.ID]; !ok {
		return store.ErrNotFound
	}
	m.state.orders[order.ID] = copyOrder(order)
	return nil
}

// ---- payments ----

type memPayments memStore

func (m *memPayments) Create(ctx context.Context, payment *models.Payment) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.payments[payment.ID] = copyPayment(payment)
	return nil
}

func (m *memPayments) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	p, ok := m.state.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyPayment(p), nil
}

func (m *memPayments) FindByIDForUpdate(ctx context.Context, id string) (*models.Payment, error) {
	return m.FindByID(ctx, id)
}

func (m *memPayments) FindCreatedByOrder(ctx context.Context, orderID string) (*models.Payment, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, p := range m.state.payments {
		if p.OrderID == orderID && p.Status == models.PaymentStateCreated {
			return copyPayment(p), nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memPayments) Save(ctx context.Context, payment *models.Payment) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.payments[payment.ID] = copyPayment(payment)
	return nil
}

// ---- users ----

type memUsers memStore

func (m *memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.state.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

// ---- gateway fake ----

type fakeGateway struct {
	secret    string
	createErr error
	intents   int
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*gateway.Intent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.intents++
	return &gateway.Intent{
		ID:       fmt.Sprintf("order_gw_%d", g.intents),
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (g *fakeGateway) VerifySignature(orderRef, paymentRef, signature string) bool {
	expected := gateway.Sign(g.secret, orderRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ---- publisher fake ----

type publishedEvent struct {
	routingKey string
	payload    interface{}
}

type capturePublisher struct {
	events []publishedEvent
}

func (p *capturePublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.events = append(p.events, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

func (p *capturePublisher) Close() {}

func (p *capturePublisher) count(routingKey string) int {
	n := 0
	for _, e := range p.events {
		if e.routingKey == routingKey {
			n++
		}
	}
	return n
}
