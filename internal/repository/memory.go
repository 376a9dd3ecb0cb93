package repository

import (
	"context"
	"sync"
)

// MemoryBackend хранит слоты в памяти процесса.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryBackend создаёт пустое хранилище в памяти.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

// Load возвращает копию содержимого слота.
func (m *MemoryBackend) Load(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), data...), nil
}

// Save перезаписывает содержимое слота.
func (m *MemoryBackend) Save(ctx context.Context, slot string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

// Remove удаляет слот.
func (m *MemoryBackend) Remove(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, slot)
	return nil
}

// Close ничего не делает.
func (m *MemoryBackend) Close() error {
	return nil
}
