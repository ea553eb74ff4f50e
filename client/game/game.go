package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/cbodonnell/pong/client/input"
	"github.com/cbodonnell/pong/client/network"
	"github.com/cbodonnell/pong/client/view"
	"github.com/cbodonnell/pong/pkg/game/constants"
	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	ScreenWidth  = int(constants.GameWidth)
	ScreenHeight = int(constants.GameHeight)

	centerLineDash  = 10
	centerLineWidth = 2
)

var (
	backgroundColor = color.Black
	foregroundColor = color.White
	highlightColor  = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	errorColor      = color.RGBA{0xff, 0x55, 0x55, 0xff}
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	// networkManager is the network manager.
	networkManager *network.NetworkManager
	// view is the match as last reported by the server.
	view *view.View
}

type NewGameOptions struct {
	Debug          bool
	NetworkManager *network.NetworkManager
}

// NewGame connects to the server and returns the game. A failed connection
// is shown on screen rather than returned.
func NewGame(opts NewGameOptions) ebiten.Game {
	g := &Game{
		debug:          opts.Debug,
		networkManager: opts.NetworkManager,
		view:           view.New(),
	}
	g.connect()
	return g
}

func (g *Game) connect() {
	g.view = view.New()
	if err := g.networkManager.Start(); err != nil {
		log.Error("Failed to start network manager: %v", err)
		g.view.Disconnect()
	}
}

func (g *Game) Update() error {
	if input.IsNegativeJustPressed() {
		return ebiten.Termination
	}

	if !g.networkManager.IsConnected() {
		// reconnect on demand once the previous connection is gone
		if input.IsPositiveJustPressed() {
			g.connect()
		}
		return nil
	}

	g.applyServerMessages()
	g.checkNetworkManagerErrors()

	if !g.view.CanMove() {
		return nil
	}
	if input.IsUpRepeated() {
		g.sendPaddleMove(types.DirectionUp)
	}
	if input.IsDownRepeated() {
		g.sendPaddleMove(types.DirectionDown)
	}

	return nil
}

func (g *Game) applyServerMessages() {
	now := time.Now()
	for _, item := range g.networkManager.ServerMessageQueue().ReadAllMessages() {
		msg, ok := item.(*messages.Message)
		if !ok {
			log.Error("Unexpected item in server message queue: %T", item)
			continue
		}
		if err := g.view.Apply(msg, now); err != nil {
			log.Error("Failed to apply server message %s: %v", msg.Type, err)
		}
	}
}

// checkNetworkManagerErrors stops the network manager once the connection ends.
func (g *Game) checkNetworkManagerErrors() {
	select {
	case err := <-g.networkManager.ErrChan():
		log.Info("Connection ended: %v", err)
		g.networkManager.Stop()
		g.view.Disconnect()
	default:
	}
}

func (g *Game) sendPaddleMove(direction types.Direction) {
	if err := g.networkManager.SendPaddleMove(direction); err != nil {
		log.Error("Failed to send paddle move: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if gameState := g.view.GameState; gameState != nil {
		g.drawField(screen, gameState)
	}
	g.drawStatus(screen)

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %0.1f TPS: %0.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 8, ScreenHeight-20)
	}
}

func (g *Game) drawField(screen *ebiten.Image, gameState *types.GameState) {
	width := float32(gameState.GameWidth)
	height := float32(gameState.GameHeight)

	for y := float32(0); y < height; y += 2 * centerLineDash {
		vector.StrokeLine(screen, width/2, y, width/2, y+centerLineDash, centerLineWidth, foregroundColor, false)
	}

	paddleWidth := float32(gameState.PaddleWidth)
	paddleHeight := float32(gameState.PaddleHeight)
	vector.DrawFilledRect(screen, 0, float32(gameState.Paddles.Left.Y), paddleWidth, paddleHeight, g.paddleColor(types.SideLeft), false)
	vector.DrawFilledRect(screen, width-paddleWidth, float32(gameState.Paddles.Right.Y), paddleWidth, paddleHeight, g.paddleColor(types.SideRight), false)

	ball := gameState.Ball
	vector.DrawFilledCircle(screen, float32(ball.X), float32(ball.Y), float32(ball.Radius), foregroundColor, true)

	face := basicfont.Face7x13
	left := fmt.Sprint(gameState.Paddles.Left.Score)
	right := fmt.Sprint(gameState.Paddles.Right.Score)
	text.Draw(screen, left, face, int(width/2)-40-len(left)*face.Advance, 40, foregroundColor)
	text.Draw(screen, right, face, int(width/2)+40, 40, foregroundColor)
}

func (g *Game) paddleColor(side types.Side) color.Color {
	if g.view.Side == side {
		return highlightColor
	}
	return foregroundColor
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	face := basicfont.Face7x13
	status := g.view.Status(time.Now())

	statusColor := color.Color(foregroundColor)
	switch status {
	case view.StatusFull, view.StatusDisconnected:
		statusColor = errorColor
	}

	line := status.String()
	if !g.networkManager.IsConnected() && status != view.StatusConnecting {
		line += " Press Enter to reconnect."
	}
	text.Draw(screen, line, face, (ScreenWidth-len(line)*face.Advance)/2, ScreenHeight-24, statusColor)

	if label := g.view.SideLabel(); label != "" {
		text.Draw(screen, label, face, (ScreenWidth-len(label)*face.Advance)/2, ScreenHeight-8, foregroundColor)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth, ScreenHeight
}
