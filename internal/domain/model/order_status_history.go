package model

import "time"

// 注文ステータスの変更台帳（追記専用）。
// 「誰が」「どの注文を」「どのステータスからどこへ」変えたかを残す。
// 行の更新・削除はしない。
type OrderStatusHistory struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	// 初回（注文作成時）は nil
	OldStatus *OrderStatus `gorm:"type:varchar(20)" json:"old_status,omitempty"`
	NewStatus OrderStatus  `gorm:"type:varchar(20);not null" json:"new_status"`

	// システム起点の変更は nil
	ActorUserID *int64 `gorm:"index" json:"actor_user_id,omitempty"`

	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// 注文ステータス変更の通知イベント。
// 送信はfire-and-forget。失敗しても遷移はロールバックしない。
type OrderStatusEvent struct {
	EventID   string      `json:"event_id"`
	OrderID   int64       `json:"order_id"`
	UserID    int64       `json:"user_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}
