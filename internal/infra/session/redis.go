package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// 配送先ドラフトの生存期間。カートを放置したら消えてよい
const draftTTL = 7 * 24 * time.Hour

const draftKeyPrefix = "checkout:draft:"

// Redis実装のセッションストア。
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(addr string) *RedisSessionStore {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) DeliveryDraft(ctx context.Context, sessionKey string) (model.DeliveryAddress, bool, error) {
	raw, err := s.client.Get(ctx, draftKeyPrefix+sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return model.DeliveryAddress{}, false, nil
	}
	if err != nil {
		return model.DeliveryAddress{}, false, err
	}

	var addr model.DeliveryAddress
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return model.DeliveryAddress{}, false, err
	}
	return addr, true, nil
}

func (s *RedisSessionStore) SaveDeliveryDraft(ctx context.Context, sessionKey string, addr model.DeliveryAddress) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKeyPrefix+sessionKey, raw, draftTTL).Err()
}

func (s *RedisSessionStore) ClearDeliveryDraft(ctx context.Context, sessionKey string) error {
	return s.client.Del(ctx, draftKeyPrefix+sessionKey).Err()
}
