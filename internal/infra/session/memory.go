package session

import (
	"context"
	"sync"

	"app/internal/domain/model"
)

// インメモリ実装。Redisが無い開発環境とテスト用。
type MemorySessionStore struct {
	mu     sync.RWMutex
	drafts map[string]model.DeliveryAddress
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{drafts: make(map[string]model.DeliveryAddress)}
}

func (s *MemorySessionStore) DeliveryDraft(ctx context.Context, sessionKey string) (model.DeliveryAddress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, ok := s.drafts[sessionKey]
	return addr, ok, nil
}

func (s *MemorySessionStore) SaveDeliveryDraft(ctx context.Context, sessionKey string, addr model.DeliveryAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[sessionKey] = addr
	return nil
}

func (s *MemorySessionStore) ClearDeliveryDraft(ctx context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, sessionKey)
	return nil
}
