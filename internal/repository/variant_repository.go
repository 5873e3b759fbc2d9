package repository

import (
	"context"

	"app/internal/domain/model"
)

// 重量バリエーションの読み取りと在庫戻し。
// このコアからの書き込みは在庫の加算だけ（キャンセル/失敗時の戻し）。
type VariantRepository interface {
	FindByID(ctx context.Context, variantID int64) (model.ProductWeightVariant, error)

	// 在庫戻し（キャンセル・失敗）
	IncreaseStock(ctx context.Context, variantID int64, qty int64) error
}
