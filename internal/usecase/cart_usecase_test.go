package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecase(
	cartRepo *CartItemRepoMock,
	productRepo *ProductRepoMock,
	variantRepo *VariantRepoMock,
	feeRepo *DeliveryFeeRepoMock,
	sessions *SessionStoreMock,
) *usecase.CartUsecase {
	return usecase.NewCartUsecase(newSessionResolver("sess-1"), cartRepo, productRepo, variantRepo, feeRepo, sessions)
}

func availableProduct(id int64) model.Product {
	return model.Product{ID: id, Name: "Miel de thym", IsAvailable: true}
}

func variantOf(productID int64, id int64, price string, promo string) model.ProductWeightVariant {
	return model.ProductWeightVariant{
		ID:               id,
		ProductID:        productID,
		WeightValue:      decimal.RequireFromString("500"),
		WeightUnit:       "g",
		Price:            decimal.RequireFromString(price),
		PromotionalPrice: decimal.RequireFromString(promo),
	}
}

func decimalArg(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString(want))
	})
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_VariantRequired(t *testing.T) {
	uc := newCartUsecase(new(CartItemRepoMock), new(ProductRepoMock), new(VariantRepoMock), new(DeliveryFeeRepoMock), new(SessionStoreMock))

	_, err := uc.AddItem(context.Background(), usecase.AddItemInput{ProductID: 1, Quantity: 1})
	assertErrContains(t, err, "variant required")
}

func TestCartUsecase_AddItem_UnknownProduct(t *testing.T) {
	productRepo := new(ProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	uc := newCartUsecase(new(CartItemRepoMock), productRepo, new(VariantRepoMock), new(DeliveryFeeRepoMock), new(SessionStoreMock))

	vid := int64(5)
	_, err := uc.AddItem(context.Background(), usecase.AddItemInput{ProductID: 99, VariantID: &vid, Quantity: 1})
	assertErrContains(t, err, "invalid product")
}

func TestCartUsecase_AddItem_UnavailableProduct(t *testing.T) {
	productRepo := new(ProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, IsAvailable: false}, nil)

	uc := newCartUsecase(new(CartItemRepoMock), productRepo, new(VariantRepoMock), new(DeliveryFeeRepoMock), new(SessionStoreMock))

	vid := int64(5)
	_, err := uc.AddItem(context.Background(), usecase.AddItemInput{ProductID: 1, VariantID: &vid, Quantity: 1})
	assertErrContains(t, err, "invalid product")
}

func TestCartUsecase_AddItem_VariantOfAnotherProduct(t *testing.T) {
	productRepo := new(ProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(availableProduct(1), nil)

	variantRepo := new(VariantRepoMock)
	variantRepo.On("FindByID", mock.Anything, int64(5)).Return(variantOf(2, 5, "10.00", "0"), nil)

	uc := newCartUsecase(new(CartItemRepoMock), productRepo, variantRepo, new(DeliveryFeeRepoMock), new(SessionStoreMock))

	vid := int64(5)
	_, err := uc.AddItem(context.Background(), usecase.AddItemInput{ProductID: 1, VariantID: &vid, Quantity: 1})
	assertErrContains(t, err, "invalid variant")
}

func TestCartUsecase_AddItem_UsesPromotionalPrice(t *testing.T) {
	productRepo := new(ProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(availableProduct(1), nil)

	variantRepo := new(VariantRepoMock)
	variantRepo.On("FindByID", mock.Anything, int64(5)).Return(variantOf(1, 5, "10.00", "8.00"), nil)

	cartRepo := new(CartItemRepoMock)
	//プロモ価格8.00で保存される
	cartRepo.On("Upsert", mock.Anything, mock.Anything, int64(1), int64(5), int64(2), decimalArg("8.00")).
		Return(model.CartItem{ID: 1}, nil)
	cartRepo.On("ListByOwner", mock.Anything, mock.Anything).Return([]model.CartItem{}, nil)

	uc := newCartUsecase(cartRepo, productRepo, variantRepo, new(DeliveryFeeRepoMock), new(SessionStoreMock))

	vid := int64(5)
	_, err := uc.AddItem(context.Background(), usecase.AddItemInput{ProductID: 1, VariantID: &vid, Quantity: 2})
	assert.NoError(t, err)
	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_AddItem_ClampsQuantity(t *testing.T) {
	productRepo := new(ProductRepoMock)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(availableProduct(1), nil)

	variantRepo := new(VariantRepoMock)
	variantRepo.On("FindByID", mock.Anything, int64(5)).Return(variantOf(1, 5, "10.00", "0"), nil)

	cartRepo := new(CartItemRepoMock)
	//0以下は1に切り上げ
	cartRepo.On("Upsert", mock.Anything, mock.Anything, int64(1), int64(5), int64(1), decimalArg("10.00")).
		Return(model.CartItem{ID: 1}, nil)
	cartRepo.On("ListByOwner", mock.Anything, mock.Anything).Return([]model.CartItem{}, nil)

	uc := newCartUsecase(cartRepo, productRepo, variantRepo, new(DeliveryFeeRepoMock), new(SessionStoreMock))

	vid := int64(5)
	_, err := uc.AddItem(context.Background(), usecase.AddItemInput{ProductID: 1, VariantID: &vid, Quantity: -3})
	assert.NoError(t, err)
	cartRepo.AssertExpectations(t)
}

// =====================
// UpdateItem / RemoveItem
// =====================

func TestCartUsecase_UpdateItem_NotOwned(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	cartRepo.On("IsOwnedBy", mock.Anything, int64(7), mock.Anything).Return(false, nil)

	uc := newCartUsecase(cartRepo, new(ProductRepoMock), new(VariantRepoMock), new(DeliveryFeeRepoMock), new(SessionStoreMock))

	_, err := uc.UpdateItem(context.Background(), 7, usecase.UpdateItemInput{Quantity: 2})
	assertErrContains(t, err, "not found")
	cartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateItem_ClampsAndRecomputesTotal(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	cartRepo.On("IsOwnedBy", mock.Anything, int64(7), mock.Anything).Return(true, nil)
	cartRepo.On("FindByID", mock.Anything, int64(7)).Return(model.CartItem{
		ID:        7,
		ProductID: 1,
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("8.00"),
	}, nil)
	//qty=1 / total=8.00 に切り上げられる
	cartRepo.On("UpdateQuantity", mock.Anything, int64(7), int64(1), decimalArg("8.00")).Return(nil)
	cartRepo.On("ListByOwner", mock.Anything, mock.Anything).Return([]model.CartItem{}, nil)

	uc := newCartUsecase(cartRepo, new(ProductRepoMock), new(VariantRepoMock), new(DeliveryFeeRepoMock), new(SessionStoreMock))

	_, err := uc.UpdateItem(context.Background(), 7, usecase.UpdateItemInput{Quantity: 0})
	assert.NoError(t, err)
	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_RemoveItem_NotOwned(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	cartRepo.On("IsOwnedBy", mock.Anything, int64(7), mock.Anything).Return(false, nil)

	uc := newCartUsecase(cartRepo, new(ProductRepoMock), new(VariantRepoMock), new(DeliveryFeeRepoMock), new(SessionStoreMock))

	_, err := uc.RemoveItem(context.Background(), 7)
	assertErrContains(t, err, "not found")
	cartRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

// =====================
// GetCart / Clear / DeliveryQuote
// =====================

func TestCartUsecase_GetCart_AggregatesAndFallsBackName(t *testing.T) {
	product := availableProduct(1)
	variant := variantOf(1, 5, "10.00", "0")

	cartRepo := new(CartItemRepoMock)
	cartRepo.On("ListByOwner", mock.Anything, mock.Anything).Return([]model.CartItem{
		{
			ID: 1, ProductID: 1, VariantID: &variant.ID, Quantity: 2,
			UnitPrice:  decimal.RequireFromString("10.00"),
			TotalPrice: decimal.RequireFromString("20.00"),
			Product:    &product,
			Variant:    &variant,
		},
		{
			//商品が消えた行でもカートは出す
			ID: 2, ProductID: 7, Quantity: 1,
			UnitPrice:  decimal.RequireFromString("4.50"),
			TotalPrice: decimal.RequireFromString("4.50"),
		},
	}, nil)

	uc := newCartUsecase(cartRepo, new(ProductRepoMock), new(VariantRepoMock), new(DeliveryFeeRepoMock), new(SessionStoreMock))

	out, err := uc.GetCart(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "Miel de thym", out.Items[0].Name)
	assert.Equal(t, "500 g", out.Items[0].Weight)
	assert.Equal(t, "Produit #7", out.Items[1].Name)
	assertDecimalEqual(t, "24.50", out.Subtotal)
	assert.Equal(t, int64(3), out.ItemsCount)
}

func TestCartUsecase_Clear_AlsoClearsDraft(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	cartRepo.On("DeleteByOwner", mock.Anything, mock.Anything).Return(nil)

	sessions := new(SessionStoreMock)
	sessions.On("ClearDeliveryDraft", mock.Anything, "sess-1").Return(nil)

	uc := newCartUsecase(cartRepo, new(ProductRepoMock), new(VariantRepoMock), new(DeliveryFeeRepoMock), sessions)

	err := uc.Clear(context.Background())
	assert.NoError(t, err)
	cartRepo.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestCartUsecase_DeliveryQuote_NoActiveConfig(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	cartRepo.On("SummaryByOwner", mock.Anything, mock.Anything).Return(repo.CartSummary{
		Subtotal:   decimal.RequireFromString("30"),
		ItemsCount: 2,
	}, nil)

	feeRepo := new(DeliveryFeeRepoMock)
	feeRepo.On("FindActive", mock.Anything).Return(model.DeliveryFee{}, repo.ErrNotFound)

	uc := newCartUsecase(cartRepo, new(ProductRepoMock), new(VariantRepoMock), feeRepo, new(SessionStoreMock))

	q, err := uc.DeliveryQuote(context.Background())
	assert.NoError(t, err)
	assertDecimalEqual(t, "0", q.Amount)
	assert.False(t, q.IsFree)
}

func TestCartUsecase_DeliveryQuote_BelowThreshold(t *testing.T) {
	cartRepo := new(CartItemRepoMock)
	cartRepo.On("SummaryByOwner", mock.Anything, mock.Anything).Return(repo.CartSummary{
		Subtotal:   decimal.RequireFromString("30"),
		ItemsCount: 2,
	}, nil)

	feeRepo := new(DeliveryFeeRepoMock)
	feeRepo.On("FindActive", mock.Anything).Return(*feeConfig("5.00", "50"), nil)

	uc := newCartUsecase(cartRepo, new(ProductRepoMock), new(VariantRepoMock), feeRepo, new(SessionStoreMock))

	q, err := uc.DeliveryQuote(context.Background())
	assert.NoError(t, err)
	assertDecimalEqual(t, "5.00", q.Amount)
	if assert.NotNil(t, q.Remaining) {
		assertDecimalEqual(t, "20", *q.Remaining)
	}
}
