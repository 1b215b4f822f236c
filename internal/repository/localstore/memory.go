package localstore

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryNamespace keeps the namespace in process memory. It backs tests and
// the default single-session deployment.
type MemoryNamespace struct {
	c *gocache.Cache
}

func NewMemoryNamespace() *MemoryNamespace {
	return &MemoryNamespace{
		c: gocache.New(gocache.NoExpiration, 0),
	}
}

func (m *MemoryNamespace) Load(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (m *MemoryNamespace) Store(_ context.Context, key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.c.Set(key, buf, gocache.NoExpiration)
	return nil
}
