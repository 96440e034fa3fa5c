package models

import "time"

type PaymentState string

const (
	PaymentStateCreated PaymentState = "created" // gateway intent created, awaiting completion
	PaymentStatePaid    PaymentState = "paid"    // signature verified, terminal
	PaymentStateFailed  PaymentState = "failed"  // signature mismatch or gateway decline
)

// Payment records one attempt to pay an order through the external
// gateway. At most one "created" payment exists per order at a time;
// a paid payment is immutable.
type Payment struct {
	ID               string       `gorm:"primaryKey;size:36" json:"id"`
	OrderID          string       `gorm:"size:36;not null;index" json:"order_id"`
	UserID           string       `gorm:"size:36;not null;index" json:"user_id"`
	GatewayOrderID   string       `gorm:"not null" json:"gateway_order_id"`
	GatewayPaymentID string       `json:"gateway_payment_id,omitempty"`
	GatewaySignature string       `json:"-"`
	Amount           float64      `gorm:"not null" json:"amount"`
	Currency         string       `gorm:"size:8;default:'INR'" json:"currency"`
	Status           PaymentState `gorm:"type:VARCHAR(20);default:'created'" json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
