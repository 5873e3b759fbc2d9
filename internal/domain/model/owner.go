package model

// カートと注文の持ち主。
// ログイン済みなら UserID、未ログインならセッションID のどちらか一方だけが入る。
type Owner struct {
	UserID    *int64
	SessionID *string
}

// ログイン済みかどうか
func (o Owner) IsUser() bool {
	return o.UserID != nil
}

// どちらも空なら無効
func (o Owner) IsZero() bool {
	return o.UserID == nil && o.SessionID == nil
}

func UserOwner(userID int64) Owner {
	return Owner{UserID: &userID}
}

func SessionOwner(sessionID string) Owner {
	return Owner{SessionID: &sessionID}
}
