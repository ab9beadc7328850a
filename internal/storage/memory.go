package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory and hands out data URLs,
// which is what the client apps render directly.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]string // key -> data URL
}

var _ FileStorage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory FileStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]string)}
}

func (m *MemoryStorage) Store(ctx context.Context, objectKey string, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyObject
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	uri := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	m.mu.Lock()
	m.objects[objectKey] = uri
	m.mu.Unlock()
	return uri, nil
}

// ResolveURL returns the URI as is; data URLs are self-contained.
func (m *MemoryStorage) ResolveURL(ctx context.Context, uri string) (string, error) {
	return uri, nil
}

// GeneratePresignedDownloadURL returns the stored data URL. Expiry does not apply.
func (m *MemoryStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	uri, ok := m.objects[objectKey]
	if !ok {
		return "", ErrObjectNotFound
	}
	return uri, nil
}

func (m *MemoryStorage) DeleteObject(ctx context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectKey]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, objectKey)
	return nil
}

// Len reports how many objects are stored.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
