package types

import (
	"fmt"

	"github.com/cbodonnell/pong/pkg/game/constants"
)

// Side is one of the two match slots.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// Direction is a discrete paddle input.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection returns an error for anything other than "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown direction: %q", s)
	}
}

type Ball struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

type Paddle struct {
	// Y is the top edge of the paddle
	Y     float64 `json:"y"`
	Score int     `json:"score"`
}

type Paddles struct {
	Left  Paddle `json:"left"`
	Right Paddle `json:"right"`
}

// GameState is the complete state of a match. It holds no pointers, so a
// value copy is a consistent snapshot.
type GameState struct {
	Ball         Ball    `json:"ball"`
	Paddles      Paddles `json:"paddles"`
	GameWidth    float64 `json:"gameWidth"`
	GameHeight   float64 `json:"gameHeight"`
	PaddleHeight float64 `json:"paddleHeight"`
	PaddleWidth  float64 `json:"paddleWidth"`
}

// NewGameState returns a game state with the default field geometry,
// centered ball and zeroed scores.
func NewGameState() *GameState {
	return &GameState{
		Ball: Ball{
			X:      constants.BallStartingX,
			Y:      constants.BallStartingY,
			VX:     constants.BallStartingVX,
			VY:     constants.BallStartingVY,
			Radius: constants.BallRadius,
		},
		Paddles: Paddles{
			Left:  Paddle{Y: constants.PaddleStartingY},
			Right: Paddle{Y: constants.PaddleStartingY},
		},
		GameWidth:    constants.GameWidth,
		GameHeight:   constants.GameHeight,
		PaddleHeight: constants.PaddleHeight,
		PaddleWidth:  constants.PaddleWidth,
	}
}

// Reset restores the defaults in place.
func (g *GameState) Reset() {
	*g = *NewGameState()
}

// Copy returns a snapshot of the game state.
func (g *GameState) Copy() GameState {
	return *g
}

// Paddle returns the paddle for a side, or nil for an invalid side.
func (g *GameState) Paddle(side Side) *Paddle {
	switch side {
	case SideLeft:
		return &g.Paddles.Left
	case SideRight:
		return &g.Paddles.Right
	default:
		return nil
	}
}

// MaxPaddleY is the largest valid paddle offset.
func (g *GameState) MaxPaddleY() float64 {
	return g.GameHeight - g.PaddleHeight
}
