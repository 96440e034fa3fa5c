package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ambreesh-Kumar/ecommerce-backend/models"
)

// Gorm implements Store on a *gorm.DB. Requires TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
type Gorm struct {
	db    *gorm.DB
	cache *ProductCache
}

func NewGorm(db *gorm.DB, cache *ProductCache) *Gorm {
	return &Gorm{db: db, cache: cache}
}

func (g *Gorm) Products() ProductStore { return (*gormProducts)(g) }
func (g *Gorm) Carts() CartStore       { return (*gormCarts)(g) }
func (g *Gorm) Orders() OrderStore     { return (*gormOrders)(g) }
func (g *Gorm) Payments() PaymentStore { return (*gormPayments)(g) }
func (g *Gorm) Users() UserStore       { return (*gormUsers)(g) }

func (g *Gorm) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx, cache: g.cache})
	})
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateOrderNumber
	default:
		return err
	}
}

// ---- products ----

type gormProducts Gorm

func (g *gormProducts) FindActive(ctx context.Context, id string) (*models.Product, error) {
	if p := g.cache.Get(ctx, id); p != nil {
		return p, nil
	}
	var product models.Product
	if err := g.db.WithContext(ctx).
		First(&product, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, translate(err)
	}
	g.cache.Set(ctx, &product)
	return &product, nil
}

func (g *gormProducts) FindActiveForUpdate(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (g *gormProducts) Reserve(ctx context.Context, id string, qty int) error {
	res := g.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	g.cache.Invalidate(ctx, id)
	return nil
}

func (g *gormProducts) Release(ctx context.Context, id string, qty int) error {
	res := g.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	g.cache.Invalidate(ctx, id)
	return nil
}

// ---- carts ----

type gormCarts Gorm

func (g *gormCarts) FindActiveByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := g.db.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (g *gormCarts) FindActiveByUserForUpdate(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := g.db.WithContext(ctx).Preload("Items").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (g *gormCarts) Create(ctx context.Context, cart *models.Cart) error {
	return g.db.WithContext(ctx).Create(cart).Error
}

// Save rewrites the cart row and its items in one transaction. The
// version check in the WHERE clause rejects lost updates from
// concurrent mutations of the same cart.
func (g *gormCarts) Save(ctx context.Context, cart *models.Cart) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{
				"total_items":     cart.TotalItems,
				"total_price":     cart.TotalPrice,
				"discount":        cart.Discount,
				"discount_amount": cart.DiscountAmount,
				"is_active":       cart.IsActive,
				"version":         cart.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}
		cart.Version++

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		return tx.Create(&cart.Items).Error
	})
}

// ---- orders ----

type gormOrders Gorm

func (g *gormOrders) Create(ctx context.Context, order *models.Order) error {
	if err := g.db.WithContext(ctx).Create(order).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (g *gormOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := g.db.WithContext(ctx).Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (g *gormOrders) FindByIDForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	if err := g.db.WithContext(ctx).Preload("Items").
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (g *gormOrders) FindByIDForUpdate(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := g.db.WithContext(ctx).Preload("Items").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (g *gormOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := g.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (g *gormOrders) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := g.db.WithContext(ctx).Model(&models.Order{})
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (g *gormOrders) Save(ctx context.Context, order *models.Order) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

// ---- payments ----

type gormPayments Gorm

func (g *gormPayments) Create(ctx context.Context, payment *models.Payment) error {
	return g.db.WithContext(ctx).Create(payment).Error
}

func (g *gormPayments) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := g.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (g *gormPayments) FindByIDForUpdate(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (g *gormPayments) FindCreatedByOrder(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := g.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStateCreated).
		First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (g *gormPayments) Save(ctx context.Context, payment *models.Payment) error {
	return g.db.WithContext(ctx).Save(payment).Error
}

// ---- users ----

type gormUsers Gorm

func (g *gormUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
