package notify

import (
	"context"

	"app/internal/domain/model"

	"go.uber.org/zap"
)

// チャネル経由の非同期ディスパッチャ。
// 遷移トランザクションの成否と通知の配送を切り離す。
type ChannelDispatcher struct {
	events chan model.OrderStatusEvent
	done   chan struct{}
	logger *zap.Logger
}

func NewChannelDispatcher(buffer int, logger *zap.Logger) *ChannelDispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &ChannelDispatcher{
		events: make(chan model.OrderStatusEvent, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
	go d.run()
	return d
}

// キューに積むだけ。満杯なら落としてログに残す
func (d *ChannelDispatcher) Dispatch(ctx context.Context, ev model.OrderStatusEvent) error {
	select {
	case d.events <- ev:
		return nil
	default:
		d.logger.Warn("notification queue full, event dropped",
			zap.String("event_id", ev.EventID),
			zap.Int64("order_id", ev.OrderID))
		return nil
	}
}

func (d *ChannelDispatcher) run() {
	for {
		select {
		case ev := <-d.events:
			// 配送チャンネル（メール等）はここに差し込む。今はログ
			d.logger.Info("order status changed",
				zap.String("event_id", ev.EventID),
				zap.Int64("order_id", ev.OrderID),
				zap.Int64("user_id", ev.UserID),
				zap.String("old_status", string(ev.OldStatus)),
				zap.String("new_status", string(ev.NewStatus)))
		case <-d.done:
			return
		}
	}
}

func (d *ChannelDispatcher) Close() {
	close(d.done)
}
