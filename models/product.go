package models

import "time"

type Product struct {
	ID            string   `gorm:"primaryKey;size:36" json:"id"`
	Name          string   `gorm:"not null" json:"name"`
	Slug          string   `gorm:"index" json:"slug"`
	Description   string   `json:"description"`
	Price         float64  `gorm:"not null" json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	Image         string   `json:"image"`
	Stock         int      `gorm:"not null;default:0" json:"stock"`
	CategoryID    string   `gorm:"size:36;index" json:"category_id"`
	Category      Category `gorm:"foreignKey:CategoryID" json:"-"`
	IsActive      bool     `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EffectivePrice is the price charged at purchase time: the discount
// price when one is set, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}
