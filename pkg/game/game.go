package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/cbodonnell/pong/pkg/game/constants"
	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/cbodonnell/pong/pkg/queue"
	"github.com/cbodonnell/pong/pkg/state"
	"github.com/cbodonnell/pong/pkg/workers"
	"github.com/google/uuid"
)

const (
	// GameFullCloseReason is sent with the close frame to a rejected client
	GameFullCloseReason = "game is full"
)

// GameManager owns the match. Game state, sessions and the clock are only
// touched from the goroutine running Start.
type GameManager struct {
	eventQueue        queue.Queue
	serverMessageChan chan<- workers.ServerMessage
	gameState         *types.GameState
	sessions          *SessionManager
	clock             Clock
	rng               Rand
	stateManager      state.StateManager
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	// EventQueue carries connect, disconnect and paddle move events from the network
	EventQueue queue.Queue
	// ServerMessageChan receives every message the game sends to clients
	ServerMessageChan chan<- workers.ServerMessage
	// GameState defaults to types.NewGameState()
	GameState *types.GameState
	// Clock defaults to a ticker at constants.TickInterval
	Clock Clock
	// Rand defaults to a time seeded source
	Rand Rand
	// StateManager, if set, receives the match status after every change
	StateManager state.StateManager
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	gameState := opts.GameState
	if gameState == nil {
		gameState = types.NewGameState()
	}
	clock := opts.Clock
	if clock == nil {
		clock = NewTickerClock(constants.TickInterval)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &GameManager{
		eventQueue:        opts.EventQueue,
		serverMessageChan: opts.ServerMessageChan,
		gameState:         gameState,
		sessions:          NewSessionManager(),
		clock:             clock,
		rng:               rng,
		stateManager:      opts.StateManager,
	}
}

// Start runs the game loop until ctx is done. Events and ticks are handled one
// at a time in the order they are received.
func (gm *GameManager) Start(ctx context.Context) error {
	defer gm.clock.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case item := <-gm.eventQueue.Chan():
			gm.handleEvent(item)
		case <-gm.clock.C():
			gm.gameTick()
		}
		gm.publishStatus(ctx)
	}
}

func (gm *GameManager) handleEvent(item interface{}) {
	switch event := item.(type) {
	case *types.ConnectPlayerEvent:
		gm.handleConnectPlayer(event.ClientID)
	case *types.DisconnectPlayerEvent:
		gm.handleDisconnectPlayer(event.ClientID)
	case *types.PaddleMoveEvent:
		gm.handlePaddleMove(event.ClientID, event.Direction)
	default:
		log.Error("Unhandled event type: %T", event)
	}
}

// handleConnectPlayer seats a new connection or turns it away.
func (gm *GameManager) handleConnectPlayer(clientID uuid.UUID) {
	side, secondJoined, err := gm.sessions.Assign(clientID)
	if err != nil {
		if errors.Is(err, ErrGameFull) {
			log.Info("Client %s rejected: %v", clientID, err)
			gm.sendServerMessage(workers.ServerMessage{
				ClientIDs:   []uuid.UUID{clientID},
				Type:        messages.MessageTypeServerGameFull,
				Close:       true,
				CloseReason: GameFullCloseReason,
			})
			return
		}
		log.Error("Failed to assign client %s: %v", clientID, err)
		return
	}

	log.Info("Client %s assigned to %s", clientID, side)
	gm.sendServerMessage(workers.ServerMessage{
		ClientIDs: []uuid.UUID{clientID},
		Type:      messages.MessageTypeServerPlayerAssigned,
		Message:   side,
	})

	if secondJoined {
		log.Info("Second player joined, starting match")
		gm.clock.Start()
	}
}

// handleDisconnectPlayer frees the connection's side. Any departure ends the
// match: the clock stops and the state goes back to its defaults, even if the
// other player is still connected.
func (gm *GameManager) handleDisconnectPlayer(clientID uuid.UUID) {
	if !gm.sessions.Release(clientID) {
		log.Debug("Client %s disconnected without a side", clientID)
		return
	}

	log.Info("Client %s left, resetting game", clientID)
	gm.clock.Stop()
	gm.gameState.Reset()
}

func (gm *GameManager) handlePaddleMove(clientID uuid.UUID, direction types.Direction) {
	side, ok := gm.sessions.Side(clientID)
	if !ok {
		log.Warn("Client %s sent a paddle move without a side", clientID)
		return
	}

	if !ApplyMove(gm.gameState, side, direction) {
		log.Trace("Ignored %s move for %s paddle at %v", direction, side, gm.gameState.Paddle(side).Y)
	}
}

// gameTick advances the ball and then broadcasts the resulting state to
// both seated players.
func (gm *GameManager) gameTick() {
	if scorer, scored := Advance(gm.gameState, gm.rng); scored {
		log.Debug("Point for %s: %d-%d", scorer, gm.gameState.Paddles.Left.Score, gm.gameState.Paddles.Right.Score)
	}

	gm.sendServerMessage(workers.ServerMessage{
		ClientIDs: gm.sessions.ClientIDs(),
		Type:      messages.MessageTypeServerGameUpdate,
		Message:   gm.gameState.Copy(),
	})
}

// sendServerMessage hands a message to the server message worker without
// blocking the game loop.
func (gm *GameManager) sendServerMessage(msg workers.ServerMessage) {
	select {
	case gm.serverMessageChan <- msg:
	default:
		log.Warn("Server message channel full, dropping %s", msg.Type)
	}
}

func (gm *GameManager) publishStatus(ctx context.Context) {
	if gm.stateManager == nil {
		return
	}
	err := gm.stateManager.Set(ctx, state.Status{
		Players:   gm.sessions.Count(),
		Running:   gm.clock.Running(),
		GameState: gm.gameState.Copy(),
	})
	if err != nil {
		log.Error("Failed to publish match status: %v", err)
	}
}
