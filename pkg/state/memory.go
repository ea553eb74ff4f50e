package state

import (
	"context"
	"sync"

	gametypes "github.com/cbodonnell/pong/pkg/game/types"
)

type InMemoryStateManager struct {
	lock   sync.RWMutex
	status Status
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		status: Status{
			GameState: *gametypes.NewGameState(),
		},
	}
}

// Get returns the last status set. GameState holds no pointers, so the
// returned value shares nothing with the stored one.
func (m *InMemoryStateManager) Get(ctx context.Context) (Status, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.status, nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, status Status) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.status = status
	return nil
}
