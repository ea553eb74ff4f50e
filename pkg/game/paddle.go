package game

import (
	"github.com/cbodonnell/pong/pkg/game/constants"
	"github.com/cbodonnell/pong/pkg/game/types"
)

// ApplyMove moves a paddle one step and reports whether it moved.
// A step that would leave the field is ignored rather than clamped, so a
// paddle closer than one step to an edge stays where it is.
func ApplyMove(state *types.GameState, side types.Side, direction types.Direction) bool {
	paddle := state.Paddle(side)
	if paddle == nil {
		return false
	}

	switch direction {
	case types.DirectionUp:
		next := paddle.Y - constants.PaddleStep
		if next < 0 {
			return false
		}
		paddle.Y = next
	case types.DirectionDown:
		next := paddle.Y + constants.PaddleStep
		if next > state.MaxPaddleY() {
			return false
		}
		paddle.Y = next
	default:
		return false
	}

	return true
}
