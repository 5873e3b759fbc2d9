package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderStatusHistories() OrderStatusHistoryRepository
	CartItems() CartItemRepository
	Invoices() InvoiceRepository
	DeliveryFees() DeliveryFeeRepository
	Products() ProductRepository
	Variants() VariantRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
