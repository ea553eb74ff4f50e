package state

import (
	"context"
	"sync"
	"testing"

	gametypes "github.com/cbodonnell/pong/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	status, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Players)
	assert.False(t, status.Running)
	assert.Equal(t, *gametypes.NewGameState(), status.GameState)

	gameState := gametypes.NewGameState()
	gameState.Paddles.Left.Score = 2
	require.NoError(t, m.Set(ctx, Status{Players: 2, Running: true, GameState: gameState.Copy()}))

	// later changes to the source do not leak into the stored status
	gameState.Paddles.Left.Score = 3

	status, err = m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Players)
	assert.True(t, status.Running)
	assert.Equal(t, 2, status.GameState.Paddles.Left.Score)
}

func TestInMemoryStateManager_concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Set(ctx, Status{Players: i % 3}))
		}(i)
		go func() {
			defer wg.Done()
			status, err := m.Get(ctx)
			assert.NoError(t, err)
			assert.LessOrEqual(t, status.Players, 2)
		}()
	}
	wg.Wait()
}
