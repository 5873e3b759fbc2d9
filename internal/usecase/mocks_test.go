package usecase_test

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders    repo.OrderRepository
	histories repo.OrderStatusHistoryRepository
	cartItems repo.CartItemRepository
	invoices  repo.InvoiceRepository
	fees      repo.DeliveryFeeRepository
	products  repo.ProductRepository
	variants  repo.VariantRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository { return r.orders }
func (r *TxReposMock) OrderStatusHistories() repo.OrderStatusHistoryRepository {
	return r.histories
}
func (r *TxReposMock) CartItems() repo.CartItemRepository    { return r.cartItems }
func (r *TxReposMock) Invoices() repo.InvoiceRepository      { return r.invoices }
func (r *TxReposMock) DeliveryFees() repo.DeliveryFeeRepository {
	return r.fees
}
func (r *TxReposMock) Products() repo.ProductRepository { return r.products }
func (r *TxReposMock) Variants() repo.VariantRepository { return r.variants }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByReference(ctx context.Context, reference string) (model.Order, error) {
	args := m.Called(ctx, reference)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByOwner(ctx context.Context, owner model.Owner, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, owner, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type HistoryRepoMock struct{ mock.Mock }

func (m *HistoryRepoMock) Create(ctx context.Context, h model.OrderStatusHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *HistoryRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]model.OrderStatusHistory)
	return rows, args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByOwner(ctx context.Context, owner model.Owner) ([]model.CartItem, error) {
	args := m.Called(ctx, owner)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Upsert(ctx context.Context, owner model.Owner, productID int64, variantID int64, addQty int64, unitPrice decimal.Decimal) (model.CartItem, error) {
	args := m.Called(ctx, owner, productID, variantID, addQty, unitPrice)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64, totalPrice decimal.Decimal) error {
	args := m.Called(ctx, cartItemID, qty, totalPrice)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByOwner(ctx context.Context, owner model.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *CartItemRepoMock) SummaryByOwner(ctx context.Context, owner model.Owner) (repo.CartSummary, error) {
	args := m.Called(ctx, owner)
	s, _ := args.Get(0).(repo.CartSummary)
	return s, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedBy(ctx context.Context, cartItemID int64, owner model.Owner) (bool, error) {
	args := m.Called(ctx, cartItemID, owner)
	return args.Bool(0), args.Error(1)
}

type InvoiceRepoMock struct{ mock.Mock }

func (m *InvoiceRepoMock) FindByID(ctx context.Context, invoiceID int64) (model.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

func (m *InvoiceRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Invoice, error) {
	args := m.Called(ctx, orderID)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

func (m *InvoiceRepoMock) Create(ctx context.Context, inv model.Invoice) (int64, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InvoiceRepoMock) UpdatePaymentStatus(ctx context.Context, invoiceID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, invoiceID, status)
	return args.Error(0)
}

func (m *InvoiceRepoMock) UpdateDocumentPath(ctx context.Context, invoiceID int64, path string) error {
	args := m.Called(ctx, invoiceID, path)
	return args.Error(0)
}

type DeliveryFeeRepoMock struct{ mock.Mock }

func (m *DeliveryFeeRepoMock) FindActive(ctx context.Context) (model.DeliveryFee, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).(model.DeliveryFee)
	return f, args.Error(1)
}

func (m *DeliveryFeeRepoMock) FindByID(ctx context.Context, id int64) (model.DeliveryFee, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(model.DeliveryFee)
	return f, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type VariantRepoMock struct{ mock.Mock }

func (m *VariantRepoMock) FindByID(ctx context.Context, variantID int64) (model.ProductWeightVariant, error) {
	args := m.Called(ctx, variantID)
	v, _ := args.Get(0).(model.ProductWeightVariant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) IncreaseStock(ctx context.Context, variantID int64, qty int64) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

// =====================
// Collaborator mocks
// =====================

type SessionStoreMock struct{ mock.Mock }

func (m *SessionStoreMock) DeliveryDraft(ctx context.Context, sessionKey string) (model.DeliveryAddress, bool, error) {
	args := m.Called(ctx, sessionKey)
	addr, _ := args.Get(0).(model.DeliveryAddress)
	return addr, args.Bool(1), args.Error(2)
}

func (m *SessionStoreMock) SaveDeliveryDraft(ctx context.Context, sessionKey string, addr model.DeliveryAddress) error {
	args := m.Called(ctx, sessionKey, addr)
	return args.Error(0)
}

func (m *SessionStoreMock) ClearDeliveryDraft(ctx context.Context, sessionKey string) error {
	args := m.Called(ctx, sessionKey)
	return args.Error(0)
}

type DispatcherMock struct{ mock.Mock }

func (m *DispatcherMock) Dispatch(ctx context.Context, ev model.OrderStatusEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type RendererMock struct{ mock.Mock }

func (m *RendererMock) Render(ctx context.Context, inv model.Invoice, order model.Order) ([]byte, error) {
	args := m.Called(ctx, inv, order)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type FileStoreMock struct{ mock.Mock }

func (m *FileStoreMock) Store(ctx context.Context, path string, data []byte) error {
	args := m.Called(ctx, path, data)
	return args.Error(0)
}

type InvoiceGeneratorMock struct{ mock.Mock }

func (m *InvoiceGeneratorMock) GenerateForOrder(ctx context.Context, orderID int64) (model.Invoice, error) {
	args := m.Called(ctx, orderID)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

// =====================
// Auth / Session stubs
// =====================

type authStub struct{ userID int64 }

func (a authStub) CurrentUserID(ctx context.Context) (int64, bool) {
	return a.userID, a.userID > 0
}

type sessionStub struct{ id string }

func (s sessionStub) SessionID(ctx context.Context) (string, bool) {
	return s.id, s.id != ""
}

// 未ログインのセッション持ち主
func newSessionResolver(sessionID string) *usecase.OwnerResolver {
	return usecase.NewOwnerResolver(authStub{}, sessionStub{id: sessionID})
}

// ログイン済みの持ち主
func newUserResolver(userID int64, sessionID string) *usecase.OwnerResolver {
	return usecase.NewOwnerResolver(authStub{userID: userID}, sessionStub{id: sessionID})
}

// =====================
// Helpers
// =====================

// error contains（HTTPErrorの実装詳細に依存しない）
func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "got=%s want=%s", got.String(), want)
}
