package usecase

import (
	"context"

	"app/internal/domain/model"
)

// 認証コラボレータ。ログインしていなければ false。
type AuthContext interface {
	CurrentUserID(ctx context.Context) (int64, bool)
}

// 匿名セッションコラボレータ。ブラウザごとに安定したIDを返す。
type SessionContext interface {
	SessionID(ctx context.Context) (string, bool)
}

// セッション側の小さなKV。配送先ドラフトの置き場所。
type SessionStore interface {
	DeliveryDraft(ctx context.Context, sessionKey string) (model.DeliveryAddress, bool, error)
	SaveDeliveryDraft(ctx context.Context, sessionKey string, addr model.DeliveryAddress) error
	ClearDeliveryDraft(ctx context.Context, sessionKey string) error
}

// ステータス変更通知の送信口。fire-and-forget。
// 失敗してもステータス遷移はロールバックしない。
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, ev model.OrderStatusEvent) error
}

// 請求書ドキュメントのレンダラ（外部コラボレータ）
type DocumentRenderer interface {
	Render(ctx context.Context, inv model.Invoice, order model.Order) ([]byte, error)
}

// レンダリング結果の保存先（外部コラボレータ）
type FileStore interface {
	Store(ctx context.Context, path string, data []byte) error
}

// 請求書生成。ステータス遷移（delivered）から呼ばれる。
type InvoiceGenerator interface {
	GenerateForOrder(ctx context.Context, orderID int64) (model.Invoice, error)
}
