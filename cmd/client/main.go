package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cbodonnell/pong/client/game"
	"github.com/cbodonnell/pong/client/network"
	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/queue"
	"github.com/cbodonnell/pong/pkg/version"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	serverURL := flag.String("server", network.DefaultServerURL, "WebSocket URL of the game server")
	compress := flag.Bool("compress", false, "Use zstd compressed frames")
	logLevel := flag.String("log-level", "info", "Log level")
	debug := flag.Bool("debug", false, "Show debug overlay")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())

	serverMessageQueue := queue.NewInMemoryQueue(1024)
	networkManager, err := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ServerURL:    *serverURL,
		Compress:     *compress,
		MessageQueue: serverMessageQueue,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create network manager: %v", err))
	}
	defer networkManager.Stop()

	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	ebiten.SetWindowTitle("Pong")
	g := game.NewGame(game.NewGameOptions{
		Debug:          *debug,
		NetworkManager: networkManager,
	})
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}
