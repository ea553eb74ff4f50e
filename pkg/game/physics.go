package game

import (
	"github.com/cbodonnell/pong/pkg/game/constants"
	"github.com/cbodonnell/pong/pkg/game/types"
)

// Rand is the source of randomness used when serving the ball after a point.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Advance runs one simulation step against the game state and returns the
// side that scored, if any.
//
// The checks run in a fixed order on the post-move position: walls, left
// paddle, right paddle, then scoring. A ball fast enough to cross a paddle
// plane and the field edge in one step is resolved by that order.
func Advance(state *types.GameState, rng Rand) (scorer types.Side, scored bool) {
	ball := &state.Ball

	ball.X += ball.VX
	ball.Y += ball.VY

	if ball.Y <= ball.Radius || ball.Y >= state.GameHeight-ball.Radius {
		ball.VY = -ball.VY
	}

	left := state.Paddles.Left
	if ball.X <= state.PaddleWidth+ball.Radius && withinPaddle(ball.Y, left, state.PaddleHeight) {
		ball.VX = -ball.VX
		ball.X = state.PaddleWidth + ball.Radius
	}

	right := state.Paddles.Right
	rightPlane := state.GameWidth - state.PaddleWidth - ball.Radius
	if ball.X >= rightPlane && withinPaddle(ball.Y, right, state.PaddleHeight) {
		ball.VX = -ball.VX
		ball.X = rightPlane
	}

	if ball.X <= 0 {
		state.Paddles.Right.Score++
		ServeBall(state, rng)
		return types.SideRight, true
	} else if ball.X >= state.GameWidth {
		state.Paddles.Left.Score++
		ServeBall(state, rng)
		return types.SideLeft, true
	}

	return "", false
}

// ServeBall re-centers the ball with a random horizontal direction and a
// random vertical velocity in [-BallServeMaxVY, BallServeMaxVY).
func ServeBall(state *types.GameState, rng Rand) {
	state.Ball.X = state.GameWidth / 2
	state.Ball.Y = state.GameHeight / 2
	if rng.Float64() > 0.5 {
		state.Ball.VX = constants.BallServeSpeedX
	} else {
		state.Ball.VX = -constants.BallServeSpeedX
	}
	state.Ball.VY = rng.Float64()*2*constants.BallServeMaxVY - constants.BallServeMaxVY
}

func withinPaddle(y float64, paddle types.Paddle, height float64) bool {
	return y >= paddle.Y && y <= paddle.Y+height
}
