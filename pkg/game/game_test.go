package game

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/cbodonnell/pong/pkg/queue"
	"github.com/cbodonnell/pong/pkg/state"
	"github.com/cbodonnell/pong/pkg/workers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock is a Clock whose ticks are sent by the test.
type manualClock struct {
	running bool
	starts  int
	c       chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{c: make(chan time.Time)}
}

func (m *manualClock) Start() {
	if m.running {
		return
	}
	m.running = true
	m.starts++
}

func (m *manualClock) Stop() {
	m.running = false
}

func (m *manualClock) Running() bool {
	return m.running
}

func (m *manualClock) C() <-chan time.Time {
	if !m.running {
		return nil
	}
	return m.c
}

func newTestGameManager(t *testing.T) (*GameManager, *manualClock, chan workers.ServerMessage) {
	t.Helper()
	clock := newManualClock()
	serverMessageChan := make(chan workers.ServerMessage, 64)
	gm := NewGameManager(NewGameManagerOptions{
		EventQueue:        queue.NewInMemoryQueue(64),
		ServerMessageChan: serverMessageChan,
		Clock:             clock,
		Rand:              rand.New(rand.NewSource(1)),
	})
	return gm, clock, serverMessageChan
}

func drain(ch chan workers.ServerMessage) []workers.ServerMessage {
	var out []workers.ServerMessage
	for {
		select {
		case msg := <-ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestGameManager_connectLifecycle(t *testing.T) {
	gm, clock, out := newTestGameManager(t)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: a})
	assert.Equal(t, []workers.ServerMessage{
		{ClientIDs: []uuid.UUID{a}, Type: messages.MessageTypeServerPlayerAssigned, Message: types.SideLeft},
	}, drain(out))
	assert.False(t, clock.Running(), "one player does not start the clock")

	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: b})
	assert.Equal(t, []workers.ServerMessage{
		{ClientIDs: []uuid.UUID{b}, Type: messages.MessageTypeServerPlayerAssigned, Message: types.SideRight},
	}, drain(out))
	assert.True(t, clock.Running())

	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: c})
	assert.Equal(t, []workers.ServerMessage{
		{
			ClientIDs:   []uuid.UUID{c},
			Type:        messages.MessageTypeServerGameFull,
			Close:       true,
			CloseReason: GameFullCloseReason,
		},
	}, drain(out))
	assert.True(t, clock.Running(), "a rejected client does not affect the match")
	assert.Equal(t, 1, clock.starts)

	// the rejected connection closing is not a departure from the match
	gm.handleEvent(&types.DisconnectPlayerEvent{ClientID: c})
	assert.True(t, clock.Running())
	assert.Equal(t, 2, gm.sessions.Count())
}

func TestGameManager_disconnectResetsGame(t *testing.T) {
	gm, clock, out := newTestGameManager(t)
	a, b := uuid.New(), uuid.New()

	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: a})
	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: b})
	gm.handleEvent(&types.PaddleMoveEvent{ClientID: a, Direction: types.DirectionUp})
	gm.gameTick()
	gm.gameState.Paddles.Left.Score = 4
	drain(out)

	gm.handleEvent(&types.DisconnectPlayerEvent{ClientID: b})

	assert.False(t, clock.Running())
	assert.Nil(t, clock.C(), "no tick can be delivered after a stop")
	assert.Equal(t, *types.NewGameState(), *gm.gameState)
	assert.Empty(t, drain(out), "disconnects are not announced")

	// a second reset leaves the defaults untouched
	gm.handleEvent(&types.DisconnectPlayerEvent{ClientID: a})
	assert.Equal(t, *types.NewGameState(), *gm.gameState)
	assert.Equal(t, 0, gm.sessions.Count())
}

func TestGameManager_paddleMove(t *testing.T) {
	gm, _, _ := newTestGameManager(t)
	a, b, stranger := uuid.New(), uuid.New(), uuid.New()

	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: a})
	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: b})

	for i := 0; i < 5; i++ {
		gm.handleEvent(&types.PaddleMoveEvent{ClientID: a, Direction: types.DirectionUp})
	}
	gm.handleEvent(&types.PaddleMoveEvent{ClientID: b, Direction: types.DirectionDown})
	gm.handleEvent(&types.PaddleMoveEvent{ClientID: stranger, Direction: types.DirectionDown})

	assert.Equal(t, 150.0, gm.gameState.Paddles.Left.Y)
	assert.Equal(t, 270.0, gm.gameState.Paddles.Right.Y)
}

func TestGameManager_gameTick(t *testing.T) {
	gm, _, out := newTestGameManager(t)
	a, b := uuid.New(), uuid.New()
	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: a})
	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: b})
	drain(out)

	gm.gameTick()

	msgs := drain(out)
	require.Len(t, msgs, 1)
	assert.Equal(t, []uuid.UUID{a, b}, msgs[0].ClientIDs)
	assert.Equal(t, messages.MessageTypeServerGameUpdate, msgs[0].Type)

	snapshot, ok := msgs[0].Message.(types.GameState)
	require.True(t, ok)
	assert.Equal(t, types.Ball{X: 405, Y: 303, VX: 5, VY: 3, Radius: 10}, snapshot.Ball)

	// later ticks do not change an already sent snapshot
	gm.gameTick()
	assert.Equal(t, 405.0, snapshot.Ball.X)
}

func TestGameManager_clockRunsIffTwoPlayers(t *testing.T) {
	gm, clock, out := newTestGameManager(t)
	rng := rand.New(rand.NewSource(7))
	clients := make([]uuid.UUID, 4)
	for i := range clients {
		clients[i] = uuid.New()
	}

	for i := 0; i < 2000; i++ {
		id := clients[rng.Intn(len(clients))]
		if rng.Intn(2) == 0 {
			gm.handleEvent(&types.ConnectPlayerEvent{ClientID: id})
		} else {
			gm.handleEvent(&types.DisconnectPlayerEvent{ClientID: id})
		}
		drain(out)

		require.Equal(t, gm.sessions.Count() == 2, clock.Running(), "step %d", i)
	}
}

func TestGameManager_Start(t *testing.T) {
	clock := newManualClock()
	eventQueue := queue.NewInMemoryQueue(64)
	out := make(chan workers.ServerMessage, 64)
	gm := NewGameManager(NewGameManagerOptions{
		EventQueue:        eventQueue,
		ServerMessageChan: out,
		Clock:             clock,
		Rand:              rand.New(rand.NewSource(1)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- gm.Start(ctx)
	}()

	next := func() workers.ServerMessage {
		t.Helper()
		select {
		case msg := <-out:
			return msg
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for server message")
			return workers.ServerMessage{}
		}
	}
	tick := func() {
		t.Helper()
		select {
		case clock.c <- time.Now():
		case <-time.After(2 * time.Second):
			t.Fatal("timed out sending tick")
		}
	}

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, eventQueue.Enqueue(&types.ConnectPlayerEvent{ClientID: a}))
	require.NoError(t, eventQueue.Enqueue(&types.ConnectPlayerEvent{ClientID: b}))
	assert.Equal(t, types.SideLeft, next().Message)
	assert.Equal(t, types.SideRight, next().Message)

	require.NoError(t, eventQueue.Enqueue(&types.PaddleMoveEvent{ClientID: a, Direction: types.DirectionDown}))
	tick()
	update := next()
	require.Equal(t, messages.MessageTypeServerGameUpdate, update.Type)
	snapshot := update.Message.(types.GameState)
	assert.Equal(t, 405.0, snapshot.Ball.X)

	// b leaves and c takes the free side; the next snapshot starts from defaults
	require.NoError(t, eventQueue.Enqueue(&types.DisconnectPlayerEvent{ClientID: b}))
	require.NoError(t, eventQueue.Enqueue(&types.ConnectPlayerEvent{ClientID: c}))
	assigned := next()
	assert.Equal(t, []uuid.UUID{c}, assigned.ClientIDs)
	assert.Equal(t, types.SideRight, assigned.Message)

	tick()
	snapshot = next().Message.(types.GameState)
	assert.Equal(t, 405.0, snapshot.Ball.X)
	assert.Equal(t, 250.0, snapshot.Paddles.Left.Y)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("game loop did not stop")
	}
}

func TestGameManager_publishStatus(t *testing.T) {
	gm, _, _ := newTestGameManager(t)
	stateManager := state.NewInMemoryStateManager()
	gm.stateManager = stateManager
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: a})
	gm.publishStatus(ctx)
	status, err := stateManager.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Players)
	assert.False(t, status.Running)

	gm.handleEvent(&types.ConnectPlayerEvent{ClientID: b})
	gm.gameTick()
	gm.publishStatus(ctx)
	status, err = stateManager.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Players)
	assert.True(t, status.Running)
	assert.Equal(t, 405.0, status.GameState.Ball.X)

	gm.handleEvent(&types.DisconnectPlayerEvent{ClientID: a})
	gm.publishStatus(ctx)
	status, err = stateManager.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Players)
	assert.False(t, status.Running)
	assert.Equal(t, *types.NewGameState(), status.GameState)
}
