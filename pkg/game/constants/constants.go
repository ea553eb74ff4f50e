package constants

import "time"

const (
	// GameWidth is the width of the field
	GameWidth float64 = 800.0
	// GameHeight is the height of the field
	GameHeight float64 = 600.0

	// PaddleWidth is the width of both paddles
	PaddleWidth float64 = 10.0
	// PaddleHeight is the height of both paddles
	PaddleHeight float64 = 100.0
	// PaddleStartingY is the top edge of a paddle after a reset
	PaddleStartingY float64 = 250.0
	// PaddleStep is how far a paddle moves per input event
	PaddleStep float64 = 20.0

	// BallRadius
	BallRadius float64 = 10.0
	// BallStartingX
	BallStartingX float64 = 400.0
	// BallStartingY
	BallStartingY float64 = 300.0
	// BallStartingVX is the horizontal velocity after a full reset
	BallStartingVX float64 = 5.0
	// BallStartingVY is the vertical velocity after a full reset
	BallStartingVY float64 = 3.0
	// BallServeSpeedX is the horizontal speed after a point is scored.
	// The sign is chosen at random.
	BallServeSpeedX float64 = 5.0
	// BallServeMaxVY bounds the vertical velocity after a point, [-BallServeMaxVY, BallServeMaxVY)
	BallServeMaxVY float64 = 3.0

	// TickRate is the number of simulation ticks per second
	TickRate int = 60
	// TickInterval is the period of the simulation clock
	TickInterval time.Duration = time.Second / time.Duration(TickRate)
)
