package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 自分の注文の参照系。
// 明細は注文に凍結済みなのでJOINは要らない。
type OrderUsecase struct {
	owner       *OwnerResolver
	orderRepo   repo.OrderRepository
	historyRepo repo.OrderStatusHistoryRepository
}

func NewOrderUsecase(
	owner *OwnerResolver,
	orderRepo repo.OrderRepository,
	historyRepo repo.OrderStatusHistoryRepository,
) *OrderUsecase {
	return &OrderUsecase{owner: owner, orderRepo: orderRepo, historyRepo: historyRepo}
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context) ([]OrderOutput, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return []OrderOutput{}, err
	}

	//ページングはまずは固定で取る
	orders, _, err := u.orderRepo.ListByOwner(ctx, owner, 1, 50)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, orderID int64) (OrderOutput, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return OrderOutput{}, err
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の注文は「存在しない扱い」にする
	if !ownsOrder(owner, o) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return toOrderOutput(o), nil
}

// 参照コードでの照会（注文完了ページ用）。所有チェックは詳細と同じ。
func (u *OrderUsecase) GetMyOrderByReference(ctx context.Context, reference string) (OrderOutput, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return OrderOutput{}, err
	}
	if reference == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid reference")
	}

	o, err := u.orderRepo.FindByReference(ctx, reference)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !ownsOrder(owner, o) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return toOrderOutput(o), nil
}

// 注文が持ち主のものか。ユーザーならuser_id、匿名ならsession_idで突き合わせる
func ownsOrder(owner model.Owner, o model.Order) bool {
	if owner.UserID != nil {
		return o.UserID != nil && *o.UserID == *owner.UserID
	}
	if owner.SessionID != nil {
		return o.SessionID != nil && *o.SessionID == *owner.SessionID
	}
	return false
}
