package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 商品の重量バリエーション（500g / 1kg など）。
// 価格と在庫はバリエーション単位で持つ。
type ProductWeightVariant struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID        int64           `gorm:"not null;index" json:"product_id"`
	WeightValue      decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"weight_value"`
	WeightUnit       string          `gorm:"type:varchar(10);not null" json:"weight_unit"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	PromotionalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"promotional_price"`
	Stock            int64           `gorm:"not null;default:0" json:"stock"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 販売価格。プロモ価格が設定されていればそちらを優先する。
func (v ProductWeightVariant) EffectivePrice() decimal.Decimal {
	if v.PromotionalPrice.IsPositive() {
		return v.PromotionalPrice
	}
	return v.Price
}

// 表示用の重量（"500 g" など）
func (v ProductWeightVariant) WeightLabel() string {
	return fmt.Sprintf("%s %s", v.WeightValue.String(), strings.TrimSpace(v.WeightUnit))
}
