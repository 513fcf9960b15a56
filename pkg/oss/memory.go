package oss

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Memory keeps objects in process. Used by tests and local runs without an
// object store.
type Memory struct {
	mu         sync.Mutex
	objects    map[string][]byte
	publicBase string
}

func NewMemory(publicBase string) *Memory {
	if publicBase == "" {
		publicBase = "memory://"
	}
	return &Memory{objects: make(map[string][]byte), publicBase: publicBase}
}

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if _, _, err := SplitKey(key); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", key)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return m.URL(key), nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) URL(key string) string {
	return joinURL(m.publicBase, key)
}

func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
