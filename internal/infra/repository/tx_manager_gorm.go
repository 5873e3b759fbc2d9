package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders       repo.OrderRepository
	histories    repo.OrderStatusHistoryRepository
	cartItems    repo.CartItemRepository
	invoices     repo.InvoiceRepository
	deliveryFees repo.DeliveryFeeRepository
	products     repo.ProductRepository
	variants     repo.VariantRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository { return r.orders }
func (r *txReposGorm) OrderStatusHistories() repo.OrderStatusHistoryRepository {
	return r.histories
}
func (r *txReposGorm) CartItems() repo.CartItemRepository       { return r.cartItems }
func (r *txReposGorm) Invoices() repo.InvoiceRepository         { return r.invoices }
func (r *txReposGorm) DeliveryFees() repo.DeliveryFeeRepository { return r.deliveryFees }
func (r *txReposGorm) Products() repo.ProductRepository         { return r.products }
func (r *txReposGorm) Variants() repo.VariantRepository         { return r.variants }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:       NewOrderGormRepository(tx),
			histories:    NewOrderStatusHistoryGormRepository(tx),
			cartItems:    NewCartItemGormRepository(tx),
			invoices:     NewInvoiceGormRepository(tx),
			deliveryFees: NewDeliveryFeeGormRepository(tx),
			products:     NewProductGormRepository(tx),
			variants:     NewVariantGormRepository(tx),
		}
		return fn(r)
	})
}
