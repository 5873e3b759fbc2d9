package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。
// (持ち主, 商品, バリエーション) で一意。同じ組み合わせの追加は数量加算になる。
// unit_price は追加時点の価格を必ず保存。
type CartItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *int64          `gorm:"index:idx_cart_owner_user,unique,where:user_id IS NOT NULL" json:"user_id,omitempty"`
	SessionID  *string         `gorm:"type:varchar(64);index:idx_cart_owner_session,unique,where:session_id IS NOT NULL" json:"session_id,omitempty"`
	ProductID  int64           `gorm:"not null;index:idx_cart_owner_user,unique;index:idx_cart_owner_session,unique" json:"product_id"`
	VariantID  *int64          `gorm:"index:idx_cart_owner_user,unique;index:idx_cart_owner_session,unique" json:"variant_id,omitempty"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Product *Product              `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductWeightVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}
