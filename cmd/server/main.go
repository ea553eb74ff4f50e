package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/pong/pkg/game"
	"github.com/cbodonnell/pong/pkg/game/constants"
	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/network"
	"github.com/cbodonnell/pong/pkg/queue"
	"github.com/cbodonnell/pong/pkg/state"
	"github.com/cbodonnell/pong/pkg/version"
	"github.com/cbodonnell/pong/pkg/workers"
)

func main() {
	port := flag.Int("port", 3000, "Port to listen on, overridden by the PORT environment variable")
	logLevel := flag.String("log-level", "info", "Log level")
	staticDir := flag.String("static-dir", "", "Directory of static files to serve at /")
	tickRate := flag.Int("tick-rate", constants.TickRate, "Game ticks per second")
	origins := flag.String("origins", "", "Comma separated cross origin hosts allowed to connect")
	certFile := flag.String("tls-cert", "", "TLS certificate file")
	keyFile := flag.String("tls-key", "", "TLS key file")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	if portEnv := os.Getenv("PORT"); portEnv != "" {
		p, err := strconv.Atoi(portEnv)
		if err != nil {
			panic(fmt.Sprintf("Failed to parse PORT environment variable: %v", err))
		}
		*port = p
	}
	if *tickRate <= 0 {
		panic(fmt.Sprintf("Tick rate must be positive, got %d", *tickRate))
	}

	var tlsConfig *network.TLSConfig
	if *certFile != "" || *keyFile != "" {
		if *certFile == "" || *keyFile == "" {
			panic("Both -tls-cert and -tls-key must be set to enable TLS")
		}
		tlsConfig = &network.TLSConfig{
			CertFile: *certFile,
			KeyFile:  *keyFile,
		}
	}

	var originPatterns []string
	if *origins != "" {
		originPatterns = strings.Split(*origins, ",")
	}

	log.Info("Starting pong server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventQueue := queue.NewInMemoryQueue(10000)
	serverMessageChannelSize := 1000
	serverMessageChan := make(chan workers.ServerMessage, serverMessageChannelSize)
	stateManager := state.NewInMemoryStateManager()

	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ClientManager:  network.NewClientManager(),
		EventQueue:     eventQueue,
		WSPort:         *port,
		WSServerTLS:    tlsConfig,
		StaticDir:      *staticDir,
		OriginPatterns: originPatterns,
		StateManager:   stateManager,
	})

	serverMessageWorker := workers.NewServerMessageWorker(workers.NewServerMessageWorkerOptions{
		Sender:            networkManager,
		ServerMessageChan: serverMessageChan,
	})
	go serverMessageWorker.Start(ctx)

	gameLoopInterval := time.Second / time.Duration(*tickRate)
	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		EventQueue:        eventQueue,
		ServerMessageChan: serverMessageChan,
		Clock:             game.NewTickerClock(gameLoopInterval),
		StateManager:      stateManager,
	})
	go func() {
		log.Info("Starting game manager at %d ticks per second", *tickRate)
		if err := gameManager.Start(ctx); err != nil {
			log.Error("Game manager stopped: %v", err)
		}
	}()

	if err := networkManager.Start(ctx); err != nil {
		log.Error("Network manager stopped: %v", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
