package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 配送料の設定。このコアからは読み取り専用。
// activeな行が複数あっても最初の1件だけを使う。
type DeliveryFee struct {
	ID                    int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Amount                decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"amount"`
	FreeShippingThreshold *decimal.Decimal `gorm:"type:numeric(12,2)" json:"free_shipping_threshold,omitempty"`
	IsActive              bool             `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt             time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
