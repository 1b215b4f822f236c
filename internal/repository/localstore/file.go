package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileNamespace keeps the whole namespace in one JSON document on disk,
// rewritten in full on every Store. A rename makes the rewrite atomic on the
// same filesystem.
type FileNamespace struct {
	mu   sync.Mutex
	path string
}

func NewFileNamespace(path string) (*FileNamespace, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileNamespace{path: path}, nil
}

func (f *FileNamespace) Load(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.readAll()
	data, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (f *FileNamespace) Store(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.readAll()
	doc[key] = json.RawMessage(data)

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode namespace: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("failed to write namespace: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace namespace: %w", err)
	}
	return nil
}

// readAll tolerates a missing or corrupt file by starting over with an empty
// document; the typed store reseeds on top.
func (f *FileNamespace) readAll() map[string]json.RawMessage {
	doc := make(map[string]json.RawMessage)
	payload, err := os.ReadFile(f.path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return make(map[string]json.RawMessage)
	}
	return doc
}
