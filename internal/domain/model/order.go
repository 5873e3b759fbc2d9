package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusFailed     OrderStatus = "failed"
)

// 既知のステータスかどうか
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

// 終端ステータス（ここからの遷移は無い）
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

// 注文明細のスナップショット。
// 注文確定時点の値を凍結する。後から商品が変わっても注文内容は変わらない。
type OrderLine struct {
	ProductID  int64           `json:"product_id"`
	VariantID  *int64          `json:"variant_id,omitempty"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// orders.lines にJSONBで保存する明細リスト
type OrderLines []OrderLine

func (l OrderLines) Value() (driver.Value, error) {
	if l == nil {
		l = OrderLines{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *OrderLines) Scan(src interface{}) error {
	if src == nil {
		*l = OrderLines{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for OrderLines")
	}
}

// 注文。チェックアウト時点の金額スナップショット。
// ステータス以外は作成後に変更しない。
type Order struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64  `gorm:"index" json:"user_id,omitempty"`
	SessionID *string `gorm:"type:varchar(64);index" json:"-"`
	Reference string  `gorm:"type:varchar(20);not null;uniqueIndex" json:"reference"`

	// 配送先（確定時にカートの住所ドラフトから凍結）
	FullName   string `gorm:"type:varchar(255);not null" json:"full_name"`
	Email      string `gorm:"type:varchar(255)" json:"email"`
	Phone      string `gorm:"type:varchar(50)" json:"phone"`
	Address    string `gorm:"type:varchar(500);not null" json:"address"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`

	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Lines         OrderLines      `gorm:"type:jsonb;not null" json:"lines"`
	ItemsCount    int64           `gorm:"not null" json:"items_count"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	DeliveryFeeID *int64          `gorm:"index" json:"delivery_fee_id,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
