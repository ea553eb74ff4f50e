package state

import (
	"context"

	gametypes "github.com/cbodonnell/pong/pkg/game/types"
)

// Status is a point in time view of the match.
type Status struct {
	// Players is the number of seated players
	Players int `json:"players"`
	// Running reports whether the match clock is ticking
	Running   bool                `json:"running"`
	GameState gametypes.GameState `json:"gameState"`
}

// StateManager provides shared access to the match status.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the current status.
	Get(ctx context.Context) (Status, error)
	// Set replaces the current status.
	Set(ctx context.Context, status Status) error
}
