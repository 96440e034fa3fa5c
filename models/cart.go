package models

import "time"

type Cart struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         string     `gorm:"size:36;uniqueIndex" json:"user_id"` // one cart per user
	Items          []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalItems     int        `json:"total_items"`
	TotalPrice     float64    `json:"total_price"`
	Discount       float64    `json:"discount"` // percent, 0-100
	DiscountAmount float64    `json:"discount_amount"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	Version        int64      `gorm:"default:0" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	CartID       uint      `gorm:"index" json:"-"`
	ProductID    string    `gorm:"size:36;not null" json:"product_id"`
	ProductName  string    `gorm:"not null" json:"product_name"`
	ProductImage string    `json:"product_image"`
	Price        float64   `gorm:"not null" json:"price"` // effective price captured at add time
	Quantity     int       `gorm:"not null" json:"quantity"`
	Subtotal     float64   `gorm:"not null" json:"subtotal"`
	AddedAt      time.Time `json:"added_at"`
}

// CartTotals is the derived portion of a cart.
type CartTotals struct {
	TotalItems     int
	TotalPrice     float64
	DiscountAmount float64
}

// ComputeCartTotals recomputes line subtotals in place and returns the
// aggregate totals for the given discount percentage. The final price
// never goes below zero.
func ComputeCartTotals(items []CartItem, discount float64) CartTotals {
	var totals CartTotals
	var sum float64

	for i := range items {
		items[i].Subtotal = items[i].Price * float64(items[i].Quantity)
		totals.TotalItems += items[i].Quantity
		sum += items[i].Subtotal
	}

	totals.DiscountAmount = sum * discount / 100
	if after := sum - totals.DiscountAmount; after > 0 {
		totals.TotalPrice = after
	}
	return totals
}

// Recompute refreshes the cart's derived fields from its items. Every
// mutating cart operation must call this before persisting.
func (c *Cart) Recompute() {
	totals := ComputeCartTotals(c.Items, c.Discount)
	c.TotalItems = totals.TotalItems
	c.TotalPrice = totals.TotalPrice
	c.DiscountAmount = totals.DiscountAmount
}
