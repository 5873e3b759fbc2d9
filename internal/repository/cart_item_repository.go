package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// カート集計
type CartSummary struct {
	Subtotal   decimal.Decimal
	ItemsCount int64
}

type CartItemRepository interface {
	// 新しい順。Product/Variantを読み込んで返す
	ListByOwner(ctx context.Context, owner model.Owner) ([]model.CartItem, error)

	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)

	// (持ち主, 商品, バリエーション) で一意。既存行には数量をプラス。
	// 同時追加で一意制約に当たったら1回だけリトライする。
	Upsert(ctx context.Context, owner model.Owner, productID int64, variantID int64, addQty int64, unitPrice decimal.Decimal) (model.CartItem, error)

	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64, totalPrice decimal.Decimal) error
	DeleteByID(ctx context.Context, cartItemID int64) error

	// 持ち主の明細を全削除（チェックアウト確定・カートクリア）
	DeleteByOwner(ctx context.Context, owner model.Owner) error

	// subtotal = sum(total_price), items_count = sum(quantity)
	SummaryByOwner(ctx context.Context, owner model.Owner) (CartSummary, error)

	IsOwnedBy(ctx context.Context, cartItemID int64, owner model.Owner) (bool, error)
}
