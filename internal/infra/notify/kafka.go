package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"app/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

// Kafka実装のディスパッチャ。
// キーはorder_idにして同じ注文のイベント順序を保つ。
type KafkaDispatcher struct {
	writer *kafka.Writer
}

func NewKafkaDispatcher(brokers string, topic string) *KafkaDispatcher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
	return &KafkaDispatcher{writer: w}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, ev model.OrderStatusEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: value,
	})
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
