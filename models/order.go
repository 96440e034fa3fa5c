package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusPlaced    OrderStatus = "placed"    // order created, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // confirmed (payment received for online orders)
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // customer received the items
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled before shipping

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// orderStatusFlow is the customer-facing state machine: forward-only,
// with cancellation allowed only before shipping. Admin updates bypass
// this table deliberately (enum validation only).
var orderStatusFlow = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPlaced: {
		OrderStatusConfirmed: true,
		OrderStatusCancelled: true,
	},
	OrderStatusConfirmed: {
		OrderStatusShipped:   true,
		OrderStatusCancelled: true,
	},
	OrderStatusShipped: {
		OrderStatusDelivered: true,
	},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return orderStatusFlow[s][next]
}

// Cancellable reports whether an order in this status may still be
// cancelled by its owner or an admin.
func (s OrderStatus) Cancellable() bool {
	return orderStatusFlow[s][OrderStatusCancelled]
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(strings.ToLower(s)), nil
	default:
		return "", errors.New("invalid order status")
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(s)) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return PaymentStatus(strings.ToLower(s)), nil
	default:
		return "", errors.New("invalid payment status")
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToUpper(s)) {
	case PaymentMethodCOD, PaymentMethodOnline:
		return PaymentMethod(strings.ToUpper(s)), nil
	default:
		return "", errors.New("invalid payment method")
	}
}

type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// Complete reports whether every required subfield is present.
func (a ShippingAddress) Complete() bool {
	return a.FullName != "" && a.Phone != "" && a.AddressLine1 != "" &&
		a.City != "" && a.State != "" && a.Pincode != ""
}

type Order struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	UserID          string          `gorm:"size:36;not null;index" json:"user_id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalItems      int             `gorm:"not null" json:"total_items"`
	Subtotal        float64         `gorm:"not null" json:"subtotal"`
	Discount        float64         `json:"discount"`
	DiscountAmount  float64         `json:"discount_amount"`
	TotalAmount     float64         `gorm:"not null" json:"total_amount"`
	PaymentMethod   PaymentMethod   `gorm:"type:VARCHAR(10);default:'COD'" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	OrderStatus     OrderStatus     `gorm:"type:VARCHAR(20);default:'placed'" json:"order_status"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelledBy     string          `gorm:"size:36" json:"cancelled_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a value snapshot of the product at purchase time; it
// holds no live reference to the mutable Product row.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"-"`
	OrderID      string  `gorm:"size:36;index" json:"-"`
	ProductID    string  `gorm:"size:36;not null" json:"product_id"`
	ProductName  string  `gorm:"not null" json:"product_name"`
	ProductImage string  `json:"product_image"`
	Price        float64 `gorm:"not null" json:"price"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	Subtotal     float64 `gorm:"not null" json:"subtotal"`
}
