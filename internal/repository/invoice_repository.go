package repository

import (
	"context"

	"app/internal/domain/model"
)

type InvoiceRepository interface {
	FindByID(ctx context.Context, invoiceID int64) (model.Invoice, error)

	// 冪等ガード用。注文と請求書は1:1
	FindByOrderID(ctx context.Context, orderID int64) (model.Invoice, error)

	Create(ctx context.Context, inv model.Invoice) (int64, error)
	UpdatePaymentStatus(ctx context.Context, invoiceID int64, status model.PaymentStatus) error
	UpdateDocumentPath(ctx context.Context, invoiceID int64, path string) error
}
