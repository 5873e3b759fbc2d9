package model

import "strings"

// チェックアウト前にセッションへ一時保存する配送先ドラフト。
// 確定時に注文へ凍結され、ドラフトは消える。
type DeliveryAddress struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// 最低限の必須項目チェック
func (a DeliveryAddress) IsComplete() bool {
	return strings.TrimSpace(a.FullName) != "" && strings.TrimSpace(a.Address) != ""
}
