package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/cbodonnell/pong/pkg/messages"
)

// StaleAfter is how long the match may go without an update before the
// opponent is assumed gone.
const StaleAfter = time.Second

type Status int

const (
	StatusConnecting Status = iota
	StatusWaiting
	StatusPlaying
	StatusFull
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting..."
	case StatusWaiting:
		return "Waiting for another player..."
	case StatusPlaying:
		return "Game in progress!"
	case StatusFull:
		return "Game is full! Please try again later."
	case StatusDisconnected:
		return "Disconnected from server"
	}
	return "Unknown"
}

// View is what the client knows about the match, built from server messages.
type View struct {
	// Side is empty until the server assigns one
	Side types.Side
	// GameState is nil until the first update arrives
	GameState  *types.GameState
	status     Status
	lastUpdate time.Time
}

func New() *View {
	return &View{status: StatusConnecting}
}

// Apply updates the view with a server message received at now.
func (v *View) Apply(msg *messages.Message, now time.Time) error {
	switch msg.Type {
	case messages.MessageTypeServerPlayerAssigned:
		var side types.Side
		if err := msg.DecodePayload(&side); err != nil {
			return err
		}
		if !side.Valid() {
			return fmt.Errorf("invalid side: %q", side)
		}
		v.Side = side
		v.status = StatusWaiting
	case messages.MessageTypeServerGameUpdate:
		gameState := &types.GameState{}
		if err := msg.DecodePayload(gameState); err != nil {
			return err
		}
		v.GameState = gameState
		v.lastUpdate = now
		if v.status != StatusFull {
			v.status = StatusPlaying
		}
	case messages.MessageTypeServerGameFull:
		v.status = StatusFull
	default:
		return fmt.Errorf("unexpected message type: %s", msg.Type)
	}
	return nil
}

// Disconnect marks the connection as gone. A full game keeps its status.
func (v *View) Disconnect() {
	if v.status != StatusFull {
		v.status = StatusDisconnected
	}
}

// Status returns the match status at now. A match that stopped sending
// updates is reported as waiting for a new opponent.
func (v *View) Status(now time.Time) Status {
	if v.status == StatusPlaying && now.Sub(v.lastUpdate) > StaleAfter {
		return StatusWaiting
	}
	return v.status
}

// SideLabel describes the local paddle, or is empty before assignment.
func (v *View) SideLabel() string {
	if v.Side == "" {
		return ""
	}
	return fmt.Sprintf("You are: %s paddle", strings.ToUpper(string(v.Side)))
}

// CanMove reports whether paddle input should be sent.
func (v *View) CanMove() bool {
	return v.Side != "" && v.status != StatusFull && v.status != StatusDisconnected
}
