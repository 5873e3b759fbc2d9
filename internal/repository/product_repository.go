package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログ読み取り。商品CRUDはこのコアの外。
type ProductRepository interface {
	FindByID(ctx context.Context, productID int64) (model.Product, error)
}
