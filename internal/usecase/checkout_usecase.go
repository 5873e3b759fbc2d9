package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	orderRefPrefix   = "CMD-"
	orderRefLen      = 10
	orderRefAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// 参照コード衝突時のリトライ回数
	orderRefMaxAttempts = 3
)

// CheckoutUsecase はカートから注文への確定処理。
// 注文作成とカートクリアは同じトランザクションで行う。
type CheckoutUsecase struct {
	owner    *OwnerResolver
	tx       repo.TransactionManager
	sessions SessionStore
	logger   *zap.Logger
}

func NewCheckoutUsecase(
	owner *OwnerResolver,
	tx repo.TransactionManager,
	sessions SessionStore,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{owner: owner, tx: tx, sessions: sessions, logger: logger}
}

type FinalizeInput struct {
	Address model.DeliveryAddress
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	Reference     string            `json:"reference"`
	Status        string            `json:"status"`
	FullName      string            `json:"full_name"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	PostalCode    string            `json:"postal_code"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	ItemsCount    int64             `json:"items_count"`
	Lines         []model.OrderLine `json:"lines"`
	DeliveryFeeID *int64            `json:"delivery_fee_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// 配送先ドラフトをセッションへ保存する
func (u *CheckoutUsecase) SaveAddressDraft(ctx context.Context, addr model.DeliveryAddress) error {
	key, ok := u.owner.SessionKey(ctx)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "no session")
	}
	if err := u.sessions.SaveDeliveryDraft(ctx, key, addr); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "session error")
	}
	return nil
}

// カートを注文に確定する。
// 空カートは弾く。明細は注文作成時点の値で凍結し、カートは空にする。
func (u *CheckoutUsecase) Finalize(ctx context.Context, in FinalizeInput) (OrderOutput, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return OrderOutput{}, err
	}

	addr := in.Address
	if !addr.IsComplete() {
		// 入力が無ければセッションのドラフトを使う
		if key, ok := u.owner.SessionKey(ctx); ok {
			if draft, found, derr := u.sessions.DeliveryDraft(ctx, key); derr == nil && found {
				addr = draft
			}
		}
	}
	if !addr.IsComplete() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "delivery address required")
	}

	var out OrderOutput

	//注文作成とカートクリアは1トランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByOwner(ctx, owner)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//集計とスナップショット
		lines := make(model.OrderLines, 0, len(cartItems))
		subtotal := decimal.Zero
		var count int64 = 0

		for _, ci := range cartItems {
			lines = append(lines, model.OrderLine{
				ProductID:  ci.ProductID,
				VariantID:  ci.VariantID,
				Name:       orderLineName(ci),
				Image:      orderLineImage(ci),
				Quantity:   ci.Quantity,
				UnitPrice:  ci.UnitPrice,
				TotalPrice: ci.TotalPrice,
			})
			subtotal = subtotal.Add(ci.TotalPrice)
			count += ci.Quantity
		}

		//配送料は参照だけ持つ。金額は表示・請求書側で都度導出する
		var feeID *int64
		fee, err := r.DeliveryFees().FindActive(ctx)
		if err == nil {
			feeID = &fee.ID
		} else if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()
		order := model.Order{
			UserID:        owner.UserID,
			SessionID:     owner.SessionID,
			FullName:      addr.FullName,
			Email:         addr.Email,
			Phone:         addr.Phone,
			Address:       addr.Address,
			City:          addr.City,
			PostalCode:    addr.PostalCode,
			Subtotal:      subtotal,
			Lines:         lines,
			ItemsCount:    count,
			Status:        model.OrderStatusPending,
			DeliveryFeeID: feeID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		//参照コードの衝突は引き直してリトライ
		var orderID int64
		for attempt := 0; attempt < orderRefMaxAttempts; attempt++ {
			ref, err := newOrderReference()
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "reference error")
			}
			order.Reference = ref

			orderID, err = r.Orders().Create(ctx, order)
			if err == nil {
				break
			}
			if attempt == orderRefMaxAttempts-1 {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		//初回の履歴（old は nil）
		if err := r.OrderStatusHistories().Create(ctx, model.OrderStatusHistory{
			OrderID:     orderID,
			OldStatus:   nil,
			NewStatus:   model.OrderStatusPending,
			ActorUserID: owner.UserID,
			Note:        "order created",
			CreatedAt:   now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空にする（再注文防止）
		if err := r.CartItems().DeleteByOwner(ctx, owner); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//コミット後にドラフトを消す。失敗してもログだけ
	if key, ok := u.owner.SessionKey(ctx); ok {
		if err := u.sessions.ClearDeliveryDraft(ctx, key); err != nil {
			u.logger.Warn("failed to clear delivery draft",
				zap.String("session", key),
				zap.Error(err))
		}
	}

	return out, nil
}

// 表示名。商品が消えていたらフォールバック、バリエーションがあれば重量を付ける
func orderLineName(ci model.CartItem) string {
	name := cartLineName(ci)
	if w := cartLineWeight(ci); w != "" {
		name += " " + w
	}
	return name
}

func orderLineImage(ci model.CartItem) string {
	if ci.Product != nil {
		return ci.Product.Image
	}
	return ""
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:            o.ID,
		Reference:     o.Reference,
		Status:        string(o.Status),
		FullName:      o.FullName,
		Address:       o.Address,
		City:          o.City,
		PostalCode:    o.PostalCode,
		Subtotal:      o.Subtotal,
		ItemsCount:    o.ItemsCount,
		Lines:         o.Lines,
		DeliveryFeeID: o.DeliveryFeeID,
		CreatedAt:     o.CreatedAt,
	}
}

// CMD- + 英大文字数字10桁。この長さなら衝突は実質無視できる
func newOrderReference() (string, error) {
	buf := make([]byte, orderRefLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = orderRefAlphabet[int(b)%len(orderRefAlphabet)]
	}
	return orderRefPrefix + string(buf), nil
}
