package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) FindByID(ctx context.Context, invoiceID int64) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("id = ?", invoiceID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Invoice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Invoice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) Create(ctx context.Context, inv model.Invoice) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return 0, err
	}
	return inv.ID, nil
}

func (r *InvoiceGormRepository) UpdatePaymentStatus(ctx context.Context, invoiceID int64, status model.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", invoiceID).
		Update("payment_status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InvoiceGormRepository) UpdateDocumentPath(ctx context.Context, invoiceID int64, path string) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", invoiceID).
		Update("document_path", path)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
