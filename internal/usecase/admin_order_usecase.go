package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 許可される遷移。ここに無い組み合わせは弾く。
// delivered / cancelled / failed は終端。
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled, model.OrderStatusFailed},
	model.OrderStatusProcessing: {model.OrderStatusShipped, model.OrderStatusCancelled, model.OrderStatusFailed},
	model.OrderStatusShipped:    {model.OrderStatusDelivered, model.OrderStatusCancelled, model.OrderStatusFailed},
}

func transitionAllowed(from model.OrderStatus, to model.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// 在庫を戻すのはキャンセルか失敗に入るときだけ
func restoresStock(to model.OrderStatus) bool {
	return to == model.OrderStatusCancelled || to == model.OrderStatusFailed
}

// AdminOrderUsecase は注文のステータス遷移（状態機械）と管理者向け一覧。
type AdminOrderUsecase struct {
	tx       repo.TransactionManager
	notifier NotificationDispatcher
	invoices InvoiceGenerator
	logger   *zap.Logger
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	notifier NotificationDispatcher,
	invoices InvoiceGenerator,
	logger *zap.Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, notifier: notifier, invoices: invoices, logger: logger}
}

type AdminUpdateOrderStatusInput struct {
	Status string
	Note   string
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 遷移の時系列どおりの履歴
func (u *AdminOrderUsecase) GetHistory(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error) {
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var rows []model.OrderStatusHistory

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var err error
		rows, err = r.OrderStatusHistories().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ステータス遷移。
// 在庫戻し・ステータス更新・履歴追記までを1トランザクションで行い、
// 通知と請求書生成はコミット後の副作用として切り離す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !newStatus.IsValid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput
	var oldStatus model.OrderStatus
	var orderUserID *int64
	noop := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// ロック付きで取得。終端チェックと更新を同じロックで守る
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（履歴も副作用も無し）
		if o.Status == newStatus {
			noop = true
			out = toOrderOutput(o)
			return nil
		}

		// 終端ガード
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusBadRequest, "cannot change "+string(o.Status)+" order")
		}
		if !transitionAllowed(o.Status, newStatus) {
			return NewHTTPError(http.StatusBadRequest, "invalid transition")
		}

		// キャンセル・失敗に入るときだけ在庫戻し。
		// 終端からは遷移できないので、戻しは注文ごとに最大1回になる
		if restoresStock(newStatus) {
			for _, line := range o.Lines {
				if line.VariantID == nil {
					continue
				}
				if err := r.Variants().IncreaseStock(ctx, *line.VariantID, line.Quantity); err != nil {
					if errors.Is(err, repo.ErrNotFound) {
						// 消えたバリエーションは黙ってスキップ
						u.logger.Warn("stock restore skipped: variant missing",
							zap.Int64("order_id", orderID),
							zap.Int64("variant_id", *line.VariantID))
						continue
					}
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		// ステータス更新
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 履歴追記（更新と同じトランザクション、直後に入れる）
		old := o.Status
		actor := actorUserID
		if err := r.OrderStatusHistories().Create(ctx, model.OrderStatusHistory{
			OrderID:     orderID,
			OldStatus:   &old,
			NewStatus:   newStatus,
			ActorUserID: &actor,
			Note:        in.Note,
			CreatedAt:   time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		oldStatus = o.Status
		orderUserID = o.UserID
		o.Status = newStatus
		out = toOrderOutput(o)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	if noop {
		return out, nil
	}

	// 会員の注文なら通知。fire-and-forgetで失敗はログだけ
	if orderUserID != nil {
		ev := model.OrderStatusEvent{
			EventID:   uuid.NewString(),
			OrderID:   orderID,
			UserID:    *orderUserID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		}
		if err := u.notifier.Dispatch(ctx, ev); err != nil {
			u.logger.Warn("status notification dispatch failed",
				zap.Int64("order_id", orderID),
				zap.Error(err))
		}
	}

	// 配達完了なら請求書を自動生成。
	// 失敗しても遷移は成立したまま（注文を請求の都合で止めない）
	if newStatus == model.OrderStatusDelivered {
		if _, err := u.invoices.GenerateForOrder(ctx, orderID); err != nil {
			u.logger.Warn("invoice generation failed",
				zap.Int64("order_id", orderID),
				zap.Error(err))
		}
	}

	return out, nil
}
