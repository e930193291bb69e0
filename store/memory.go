package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/movierec/core"
)

// MemoryStore 是内存实现的 KV Store，用于测试/开发/原型。
// 支持 TTL（过期时间），但进程重启后数据丢失。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
}

type entry struct {
	value  []byte
	expire *time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*entry),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = newEntry(value, ttl)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	now := time.Now()
	for _, k := range keys {
		if e, ok := m.data[k]; ok && !e.expired(now) {
			result[k] = e.value
		}
	}
	return result, nil
}

func (m *MemoryStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range kvs {
		m.data[k] = newEntry(v, ttl)
	}
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]*entry)
	return nil
}

func newEntry(value []byte, ttl []int) *entry {
	e := &entry{value: value}
	if len(ttl) > 0 && ttl[0] > 0 {
		expire := time.Now().Add(time.Duration(ttl[0]) * time.Second)
		e.expire = &expire
	}
	return e
}

func (e *entry) expired(now time.Time) bool {
	return e.expire != nil && now.After(*e.expire)
}

var _ core.Store = (*MemoryStore)(nil)
