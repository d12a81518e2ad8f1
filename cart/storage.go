package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/junaidrashid-git/bidaya-api/models"
)

// SchemaVersion tags every persisted cart.
const SchemaVersion = 1

// Storage holds a single serialized cart. Load returns (nil, nil) when
// nothing has been saved yet.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Remove(ctx context.Context) error
}

type envelope struct {
	Version int               `json:"version"`
	Items   []models.CartItem `json:"items"`
}

var errUnsupportedVersion = errors.New("unsupported cart schema version")

func encode(items []models.CartItem) ([]byte, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	return json.Marshal(envelope{Version: SchemaVersion, Items: items})
}

// decode accepts the current envelope and the legacy bare array.
func decode(data []byte) ([]models.CartItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var legacy []models.CartItem
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("legacy cart: %w", err)
		}
		return legacy, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("cart envelope: %w", err)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", errUnsupportedVersion, env.Version)
	}
	return env.Items, nil
}

// MemoryStorage keeps the entry in process memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
	// Fail, when set, is returned by Save. FailRemove is returned by Remove.
	Fail       error
	FailRemove error
}

func (m *MemoryStorage) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStorage) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Remove(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemove != nil {
		return m.FailRemove
	}
	m.data = nil
	return nil
}
