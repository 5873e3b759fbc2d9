package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// 支払いは代金引換のみ
const PaymentMethodCashOnDelivery = "cash_on_delivery"

// 請求書。配達済みの注文と1:1。
// 金額は発行時点で確定し、その後注文側が変わっても再計算しない。
type Invoice struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Number  string `gorm:"type:varchar(30);not null;uniqueIndex" json:"number"`
	OrderID int64  `gorm:"not null;uniqueIndex" json:"order_id"`
	UserID  *int64 `gorm:"index" json:"user_id,omitempty"`

	// 販売者情報（設定から固定で転記）
	SellerName    string `gorm:"type:varchar(255);not null" json:"seller_name"`
	SellerAddress string `gorm:"type:varchar(500)" json:"seller_address"`
	SellerPhone   string `gorm:"type:varchar(50)" json:"seller_phone"`
	SellerEmail   string `gorm:"type:varchar(255)" json:"seller_email"`
	SellerTaxID   string `gorm:"type:varchar(50)" json:"seller_tax_id"`

	// 顧客情報（注文の配送先から転記）
	ClientName    string `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail   string `gorm:"type:varchar(255)" json:"client_email"`
	ClientPhone   string `gorm:"type:varchar(50)" json:"client_phone"`
	ClientAddress string `gorm:"type:varchar(500)" json:"client_address"`

	SubtotalExclTax decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal_excl_tax"`
	VATRate         decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"vat_rate"`
	VATAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"vat_amount"`
	DeliveryFee     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"delivery_fee"`
	TotalInclTax    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_incl_tax"`

	PaymentMethod string        `gorm:"type:varchar(30);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	Status        InvoiceStatus `gorm:"type:varchar(20);not null" json:"status"`

	InvoiceDate time.Time `gorm:"not null" json:"invoice_date"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`

	// 生成したドキュメントの保存先（レンダリング失敗時は空のまま）
	DocumentPath string `gorm:"type:varchar(500)" json:"document_path,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
