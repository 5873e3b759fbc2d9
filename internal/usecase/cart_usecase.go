package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// カート行は (持ち主, 商品, バリエーション) で一意に持つ。
type CartUsecase struct {
	owner       *OwnerResolver
	cartRepo    repo.CartItemRepository
	productRepo repo.ProductRepository
	variantRepo repo.VariantRepository
	feeRepo     repo.DeliveryFeeRepository
	sessions    SessionStore
}

func NewCartUsecase(
	owner *OwnerResolver,
	cartRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	variantRepo repo.VariantRepository,
	feeRepo repo.DeliveryFeeRepository,
	sessions SessionStore,
) *CartUsecase {
	return &CartUsecase{
		owner:       owner,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
		feeRepo:     feeRepo,
		sessions:    sessions,
	}
}

type CartItemResponse struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	VariantID  *int64          `json:"variant_id,omitempty"`
	Name       string          `json:"name"`
	Weight     string          `json:"weight,omitempty"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	ItemsCount int64              `json:"items_count"`
}

type AddItemInput struct {
	ProductID int64
	VariantID *int64
	Quantity  int64
}

type UpdateItemInput struct {
	Quantity int64
}

// カート取得
func (u *CartUsecase) GetCart(ctx context.Context) (CartResponse, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return CartResponse{}, err
	}
	return u.buildCartResponse(ctx, owner)
}

// カートに追加（同一の商品×バリエーションは数量加算）。
// バリエーション未指定は弾く。価格はプロモ価格優先のスナップショット。
func (u *CartUsecase) AddItem(ctx context.Context, in AddItemInput) (CartResponse, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return CartResponse{}, err
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.VariantID == nil || *in.VariantID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "variant required")
	}

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	//商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsAvailable {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	//バリエーションが商品のものかチェック
	v, err := u.variantRepo.FindByID(ctx, *in.VariantID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid variant")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if v.ProductID != p.ID {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid variant")
	}

	//Upsert（同一商品×バリエーションは加算、競合は1回リトライ）
	if _, err := u.cartRepo.Upsert(ctx, owner, p.ID, v.ID, qty, v.EffectivePrice()); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "cart conflict")
	}

	return u.buildCartResponse(ctx, owner)
}

// 数量変更（所有チェック、1未満は1に切り上げ）
func (u *CartUsecase) UpdateItem(ctx context.Context, cartItemID int64, in UpdateItemInput) (CartResponse, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return CartResponse{}, err
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	owned, err := u.cartRepo.IsOwnedBy(ctx, cartItemID, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	item, err := u.cartRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	total := item.UnitPrice.Mul(decimal.NewFromInt(qty))
	if err := u.cartRepo.UpdateQuantity(ctx, cartItemID, qty, total); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, owner)
}

// 明細削除
func (u *CartUsecase) RemoveItem(ctx context.Context, cartItemID int64) (CartResponse, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return CartResponse{}, err
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartRepo.IsOwnedBy(ctx, cartItemID, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, owner)
}

// カートを空にする。セッションの配送先ドラフトも消す。
func (u *CartUsecase) Clear(ctx context.Context) error {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := u.cartRepo.DeleteByOwner(ctx, owner); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if key, ok := u.owner.SessionKey(ctx); ok {
		if err := u.sessions.ClearDeliveryDraft(ctx, key); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "session error")
		}
	}

	return nil
}

// 現在の小計から配送料を見積もる
func (u *CartUsecase) DeliveryQuote(ctx context.Context) (DeliveryFeeQuote, error) {
	owner, err := u.owner.Resolve(ctx)
	if err != nil {
		return DeliveryFeeQuote{}, err
	}

	summary, err := u.cartRepo.SummaryByOwner(ctx, owner)
	if err != nil {
		return DeliveryFeeQuote{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	fee, err := u.feeRepo.FindActive(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return CalculateDeliveryFee(summary.Subtotal, nil), nil
	}
	if err != nil {
		return DeliveryFeeQuote{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CalculateDeliveryFee(summary.Subtotal, &fee), nil
}

// 明細と集計をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, owner model.Owner) (CartResponse, error) {
	items, err := u.cartRepo.ListByOwner(ctx, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	subtotal := decimal.Zero
	var count int64 = 0

	for _, it := range items {
		respItems = append(respItems, CartItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			Name:       cartLineName(it),
			Weight:     cartLineWeight(it),
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})

		subtotal = subtotal.Add(it.TotalPrice)
		count += it.Quantity
	}

	return CartResponse{Items: respItems, Subtotal: subtotal, ItemsCount: count}, nil
}

// 商品が消えていてもカートは表示できるようにフォールバック名を出す
func cartLineName(it model.CartItem) string {
	if it.Product != nil {
		return it.Product.Name
	}
	return fmt.Sprintf("Produit #%d", it.ProductID)
}

func cartLineWeight(it model.CartItem) string {
	if it.Variant != nil {
		return it.Variant.WeightLabel()
	}
	return ""
}
