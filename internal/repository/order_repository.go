package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// ステータス遷移用。行ロック付きで取得する（二重の在庫戻し防止）
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)

	FindByReference(ctx context.Context, reference string) (model.Order, error)
	ListByOwner(ctx context.Context, owner model.Owner, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// 管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
