package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type DeliveryFeeGormRepository struct {
	db *gorm.DB
}

func NewDeliveryFeeGormRepository(db *gorm.DB) *DeliveryFeeGormRepository {
	return &DeliveryFeeGormRepository{db: db}
}

// activeな最初の1件。複数あっても先頭だけを使う
func (r *DeliveryFeeGormRepository) FindActive(ctx context.Context) (model.DeliveryFee, error) {
	var fee model.DeliveryFee

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		First(&fee).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryFee{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryFee{}, err
	}
	return fee, nil
}

func (r *DeliveryFeeGormRepository) FindByID(ctx context.Context, id int64) (model.DeliveryFee, error) {
	var fee model.DeliveryFee

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&fee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliveryFee{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliveryFee{}, err
	}
	return fee, nil
}
