package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
)

// カートと注文の持ち主を決める。
// ログイン済みなら UserID、未ログインならセッションID。必ずどちらか一方だけ。
type OwnerResolver struct {
	auth    AuthContext
	session SessionContext
}

func NewOwnerResolver(auth AuthContext, session SessionContext) *OwnerResolver {
	return &OwnerResolver{auth: auth, session: session}
}

func (r *OwnerResolver) Resolve(ctx context.Context) (model.Owner, error) {
	if userID, ok := r.auth.CurrentUserID(ctx); ok && userID > 0 {
		return model.UserOwner(userID), nil
	}

	if sessionID, ok := r.session.SessionID(ctx); ok && sessionID != "" {
		return model.SessionOwner(sessionID), nil
	}

	// セッションミドルウェアが入っていれば通常ここには来ない
	return model.Owner{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

// ドラフト保存などセッションキーが要る処理用。
// ログイン済みでもブラウザセッションのキーを使う。
func (r *OwnerResolver) SessionKey(ctx context.Context) (string, bool) {
	return r.session.SessionID(ctx)
}
