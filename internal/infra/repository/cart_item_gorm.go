package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// 持ち主（ユーザー or セッション）でカート行を絞り込む
func ownerScope(q *gorm.DB, owner model.Owner) *gorm.DB {
	if owner.UserID != nil {
		return q.Where("user_id = ?", *owner.UserID)
	}
	if owner.SessionID != nil {
		return q.Where("session_id = ?", *owner.SessionID)
	}
	// 持ち主が無い場合は何もヒットさせない
	return q.Where("1 = 0")
}

// 持ち主の明細を新しい順で取得
func (r *CartItemGormRepository) ListByOwner(ctx context.Context, owner model.Owner) ([]model.CartItem, error) {
	var items []model.CartItem

	q := ownerScope(r.db.WithContext(ctx), owner)
	if err := q.
		Preload("Product").
		Preload("Variant").
		Order("id desc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		Where("id = ?", cartItemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 同一 (持ち主, 商品, バリエーション) は数量加算。
// 同時追加で作成が一意制約に当たったら、もう一度ロック付きで探して加算する。
func (r *CartItemGormRepository) Upsert(ctx context.Context, owner model.Owner, productID int64, variantID int64, addQty int64, unitPrice decimal.Decimal) (model.CartItem, error) {
	if addQty < 1 {
		addQty = 1
	}

	var out model.CartItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, found, err := r.lockExisting(tx, owner, productID, variantID)
		if err != nil {
			return err
		}

		if found {
			return r.addQuantity(tx, &item, addQty, &out)
		}

		//無い場合は新規作成
		now := time.Now()
		newItem := model.CartItem{
			UserID:     owner.UserID,
			SessionID:  owner.SessionID,
			ProductID:  productID,
			VariantID:  &variantID,
			Quantity:   addQty,
			UnitPrice:  unitPrice,
			TotalPrice: unitPrice.Mul(decimal.NewFromInt(addQty)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := tx.Create(&newItem).Error; err != nil {
			// 競合したら1回だけリトライして加算側に回る
			item, found, retryErr := r.lockExisting(tx, owner, productID, variantID)
			if retryErr == nil && found {
				return r.addQuantity(tx, &item, addQty, &out)
			}
			return err
		}

		out = newItem
		return nil
	})

	if err != nil {
		return model.CartItem{}, err
	}
	return out, nil
}

// 既存行をロック付きで探す
func (r *CartItemGormRepository) lockExisting(tx *gorm.DB, owner model.Owner, productID int64, variantID int64) (model.CartItem, bool, error) {
	var item model.CartItem

	err := ownerScope(tx, owner).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND variant_id = ?", productID, variantID).
		First(&item).Error

	if err == nil {
		return item, true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, false, nil
	}
	return model.CartItem{}, false, err
}

// 数量をプラスして合計を再計算
func (r *CartItemGormRepository) addQuantity(tx *gorm.DB, item *model.CartItem, addQty int64, out *model.CartItem) error {
	newQty := item.Quantity + addQty
	if newQty < 1 {
		newQty = 1
	}
	newTotal := item.UnitPrice.Mul(decimal.NewFromInt(newQty))

	res := tx.Model(&model.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":    newQty,
			"total_price": newTotal,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	item.Quantity = newQty
	item.TotalPrice = newTotal
	*out = *item
	return nil
}

// 明細の数量と合計を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64, totalPrice decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Updates(map[string]interface{}{
			"quantity":    qty,
			"total_price": totalPrice,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 持ち主の明細を全削除
func (r *CartItemGormRepository) DeleteByOwner(ctx context.Context, owner model.Owner) error {
	return ownerScope(r.db.WithContext(ctx), owner).
		Delete(&model.CartItem{}).Error
}

// subtotalとitems_countを一度のクエリで集計
func (r *CartItemGormRepository) SummaryByOwner(ctx context.Context, owner model.Owner) (repo.CartSummary, error) {
	var row struct {
		Subtotal   decimal.Decimal
		ItemsCount int64
	}

	err := ownerScope(r.db.WithContext(ctx), owner).
		Model(&model.CartItem{}).
		Select("COALESCE(SUM(total_price), 0) AS subtotal, COALESCE(SUM(quantity), 0) AS items_count").
		Scan(&row).Error

	if err != nil {
		return repo.CartSummary{}, err
	}

	return repo.CartSummary{Subtotal: row.Subtotal, ItemsCount: row.ItemsCount}, nil
}

// cartItemが、その持ち主のカートに属しているかを判定
func (r *CartItemGormRepository) IsOwnedBy(ctx context.Context, cartItemID int64, owner model.Owner) (bool, error) {
	var count int64

	err := ownerScope(r.db.WithContext(ctx), owner).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
