package usecase

import (
	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 配送料の見積り。
// Threshold/Remaining は設定が無いときは nil。
type DeliveryFeeQuote struct {
	Amount    decimal.Decimal  `json:"amount"`
	IsFree    bool             `json:"is_free"`
	Threshold *decimal.Decimal `json:"threshold,omitempty"`
	Remaining *decimal.Decimal `json:"remaining_for_free_shipping,omitempty"`
}

// 小計とactiveな設定から配送料を計算する純関数。
// 設定が無ければ 0 / 送料無料扱いにはしない。
func CalculateDeliveryFee(subtotal decimal.Decimal, cfg *model.DeliveryFee) DeliveryFeeQuote {
	if cfg == nil {
		return DeliveryFeeQuote{Amount: decimal.Zero, IsFree: false}
	}

	quote := DeliveryFeeQuote{Amount: cfg.Amount, IsFree: false}

	if cfg.FreeShippingThreshold == nil {
		return quote
	}

	threshold := *cfg.FreeShippingThreshold
	quote.Threshold = &threshold

	// しきい値以上なら送料無料
	if subtotal.GreaterThanOrEqual(threshold) {
		quote.Amount = decimal.Zero
		quote.IsFree = true
		return quote
	}

	// あといくらで送料無料になるか
	remaining := threshold.Sub(subtotal)
	quote.Remaining = &remaining
	return quote
}
