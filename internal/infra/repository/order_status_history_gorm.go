package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type orderStatusHistoryGormRepository struct {
	db *gorm.DB
}

func NewOrderStatusHistoryGormRepository(db *gorm.DB) repo.OrderStatusHistoryRepository {
	return &orderStatusHistoryGormRepository{db: db}
}

func (r *orderStatusHistoryGormRepository) Create(ctx context.Context, h model.OrderStatusHistory) error {
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return err
	}
	return nil
}

// 遷移の時系列どおり古い順
func (r *orderStatusHistoryGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error) {
	var rows []model.OrderStatusHistory

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
