package handlestore

import (
	"context"
	"sync"

	"github.com/soulscript/notionkit/internal/provisioning"
)

// Memory keeps handles in process memory. Handles are lost on restart.
type Memory struct {
	mu      sync.Mutex
	handles map[string]provisioning.Workspace
	locked  map[string]bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		handles: make(map[string]provisioning.Workspace),
		locked:  make(map[string]bool),
	}
}

func (m *Memory) Load(_ context.Context, parentID string) (provisioning.Workspace, error) {
	if err := requireParent(parentID); err != nil {
		return provisioning.Workspace{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handles[parentID], nil
}

func (m *Memory) Save(_ context.Context, parentID string, ws provisioning.Workspace) error {
	if err := requireParent(parentID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handles[parentID] = ws
	return nil
}

func (m *Memory) Lock(_ context.Context, parentID string) (Unlock, error) {
	if err := requireParent(parentID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[parentID] {
		return nil, ErrLocked
	}
	m.locked[parentID] = true

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			m.mu.Lock()
			delete(m.locked, parentID)
			m.mu.Unlock()
		})
		return nil
	}, nil
}
