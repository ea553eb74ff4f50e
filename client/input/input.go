package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// RepeatDelay is the number of ticks a key is held before it repeats
	RepeatDelay = 15
	// RepeatInterval is the number of ticks between repeats
	RepeatInterval = 4
)

// IsPositiveJustPressed returns a boolean value indicating whether the generic positive input is just pressed.
// This is used to handle both keyboard and touch inputs.
func IsPositiveJustPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	return len(touchIDs) > 0
}

// IsNegativeJustPressed returns a boolean value indicating whether the generic negative input is just pressed.
func IsNegativeJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// IsUpRepeated reports a press of W or the up arrow, repeating while held.
func IsUpRepeated() bool {
	return isRepeated(ebiten.KeyW) || isRepeated(ebiten.KeyUp)
}

// IsDownRepeated reports a press of S or the down arrow, repeating while held.
func IsDownRepeated() bool {
	return isRepeated(ebiten.KeyS) || isRepeated(ebiten.KeyDown)
}

func isRepeated(key ebiten.Key) bool {
	return repeats(inpututil.KeyPressDuration(key))
}

// repeats reports whether a key held for d ticks fires on this tick.
func repeats(d int) bool {
	if d == 1 {
		return true
	}
	return d >= RepeatDelay && (d-RepeatDelay)%RepeatInterval == 0
}
