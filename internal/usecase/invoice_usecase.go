package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 支払い期限は発行から30日
const invoiceDueDays = 30

// 請求書に転記する販売者情報（設定から固定）
type SellerInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	TaxID   string
}

// InvoiceUsecase は注文からの請求書生成。
// 注文と1:1。二重生成は冪等ガードで既存を返す。
type InvoiceUsecase struct {
	tx       repo.TransactionManager
	renderer DocumentRenderer
	files    FileStore
	vatRate  decimal.Decimal
	seller   SellerInfo
	logger   *zap.Logger
}

func NewInvoiceUsecase(
	tx repo.TransactionManager,
	renderer DocumentRenderer,
	files FileStore,
	vatRate decimal.Decimal,
	seller SellerInfo,
	logger *zap.Logger,
) *InvoiceUsecase {
	return &InvoiceUsecase{
		tx:       tx,
		renderer: renderer,
		files:    files,
		vatRate:  vatRate,
		seller:   seller,
		logger:   logger,
	}
}

// 注文から請求書を生成する。
// subtotalはVAT込みとして税抜・税額を導出する。配送料は税の外で加算。
func (u *InvoiceUsecase) GenerateForOrder(ctx context.Context, orderID int64) (model.Invoice, error) {
	if orderID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var inv model.Invoice
	var order model.Order
	created := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//冪等ガード。すでにあれば既存を返す
		existing, err := r.Invoices().FindByOrderID(ctx, orderID)
		if err == nil {
			inv = existing
			return nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order, err = r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//配送料は注文の参照から都度導出（無ければ0）
		feeAmount := decimal.Zero
		if order.DeliveryFeeID != nil {
			fee, err := r.DeliveryFees().FindByID(ctx, *order.DeliveryFeeID)
			if err == nil {
				feeAmount = CalculateDeliveryFee(order.Subtotal, &fee).Amount
			} else if !errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		//VAT込みのsubtotalから税抜を割り出す。
		//excl + vat = subtotal が厳密に成り立つよう、vatは差分で出す
		divisor := decimal.NewFromInt(1).Add(u.vatRate.Div(decimal.NewFromInt(100)))
		subtotalExclTax := order.Subtotal.DivRound(divisor, 2)
		vatAmount := order.Subtotal.Sub(subtotalExclTax)
		totalInclTax := order.Subtotal.Add(feeAmount)

		now := time.Now()
		newInv := model.Invoice{
			Number:  invoiceNumber(now, orderID),
			OrderID: orderID,
			UserID:  order.UserID,

			SellerName:    u.seller.Name,
			SellerAddress: u.seller.Address,
			SellerPhone:   u.seller.Phone,
			SellerEmail:   u.seller.Email,
			SellerTaxID:   u.seller.TaxID,

			ClientName:    order.FullName,
			ClientEmail:   order.Email,
			ClientPhone:   order.Phone,
			ClientAddress: composeClientAddress(order),

			SubtotalExclTax: subtotalExclTax,
			VATRate:         u.vatRate,
			VATAmount:       vatAmount,
			DeliveryFee:     feeAmount,
			TotalInclTax:    totalInclTax,

			PaymentMethod: model.PaymentMethodCashOnDelivery,
			PaymentStatus: model.PaymentStatusPending,
			Status:        model.InvoiceStatusSent,

			InvoiceDate: now,
			DueDate:     now.AddDate(0, 0, invoiceDueDays),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		id, err := r.Invoices().Create(ctx, newInv)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		newInv.ID = id
		inv = newInv
		created = true
		return nil
	})

	if err != nil {
		return model.Invoice{}, err
	}

	//ドキュメント生成はコミット後。失敗しても請求書レコードは残る
	if created {
		u.renderDocument(ctx, &inv, order)
	}

	return inv, nil
}

func (u *InvoiceUsecase) GetByOrderID(ctx context.Context, orderID int64) (model.Invoice, error) {
	if orderID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var inv model.Invoice

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := r.Invoices().FindByOrderID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		inv = found
		return nil
	})

	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (u *InvoiceUsecase) UpdatePaymentStatus(ctx context.Context, invoiceID int64, status string) error {
	if invoiceID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ps := model.PaymentStatus(strings.TrimSpace(status))
	if ps != model.PaymentStatusPending && ps != model.PaymentStatusPaid {
		return NewHTTPError(http.StatusBadRequest, "invalid payment status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Invoices().UpdatePaymentStatus(ctx, invoiceID, ps); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// レンダリングと保存。失敗はログだけで呼び出し元には返さない
func (u *InvoiceUsecase) renderDocument(ctx context.Context, inv *model.Invoice, order model.Order) {
	data, err := u.renderer.Render(ctx, *inv, order)
	if err != nil {
		u.logger.Warn("invoice document render failed",
			zap.String("invoice", inv.Number),
			zap.Error(err))
		return
	}

	path := inv.Number + ".html"
	if err := u.files.Store(ctx, path, data); err != nil {
		u.logger.Warn("invoice document store failed",
			zap.String("invoice", inv.Number),
			zap.Error(err))
		return
	}

	if err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Invoices().UpdateDocumentPath(ctx, inv.ID, path)
	}); err != nil {
		u.logger.Warn("invoice document path update failed",
			zap.String("invoice", inv.Number),
			zap.Error(err))
		return
	}

	inv.DocumentPath = path
}

// INV-<年>-<注文ID>。注文と1:1なので一意になる
func invoiceNumber(now time.Time, orderID int64) string {
	return fmt.Sprintf("INV-%d-%06d", now.Year(), orderID)
}

// 配送先から顧客住所を1行に組み立てる
func composeClientAddress(o model.Order) string {
	parts := make([]string, 0, 3)
	if o.Address != "" {
		parts = append(parts, o.Address)
	}
	if o.PostalCode != "" || o.City != "" {
		parts = append(parts, strings.TrimSpace(o.PostalCode+" "+o.City))
	}
	return strings.Join(parts, ", ")
}
