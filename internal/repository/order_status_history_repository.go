package repository

import (
	"context"

	"app/internal/domain/model"
)

// ステータス変更台帳。追記のみで更新・削除は無い。
type OrderStatusHistoryRepository interface {
	Create(ctx context.Context, h model.OrderStatusHistory) error

	// 古い順（遷移の時系列どおり）
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error)
}
