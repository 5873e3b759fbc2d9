package repository

import (
	"context"

	"app/internal/domain/model"
)

// 配送料設定の読み取り。
type DeliveryFeeRepository interface {
	// activeな最初の1件。無ければ ErrNotFound
	FindActive(ctx context.Context) (model.DeliveryFee, error)

	FindByID(ctx context.Context, id int64) (model.DeliveryFee, error)
}
