package network

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/cbodonnell/pong/pkg/queue"
)

const (
	DefaultServerURL = "ws://localhost:3000/ws"
	ConnectTimeout   = 10 * time.Second
	SendTimeout      = time.Second
)

// NetworkManager represents a network manager.
type NetworkManager struct {
	serverMessageQueue queue.Queue
	wsClient           *WSClient
	wsClientErrChan    chan error
	cancelClientCtx    context.CancelFunc
	clientWaitGroup    *sync.WaitGroup
	connected          bool
}

type NewNetworkManagerOptions struct {
	ServerURL string
	// Compress selects the zstd compressed subprotocol
	Compress     bool
	MessageQueue queue.Queue
}

// NewNetworkManager creates a new network manager.
func NewNetworkManager(opts NewNetworkManagerOptions) (*NetworkManager, error) {
	serverURL := opts.ServerURL
	if serverURL == "" {
		serverURL = DefaultServerURL
	}

	subprotocol := messages.SubprotocolJSON
	if opts.Compress {
		subprotocol = messages.SubprotocolJSONZstd
	}
	codec, err := messages.CodecForSubprotocol(subprotocol)
	if err != nil {
		return nil, fmt.Errorf("failed to create codec: %v", err)
	}

	return &NetworkManager{
		serverMessageQueue: opts.MessageQueue,
		wsClient:           NewWSClient(serverURL, codec, opts.MessageQueue),
		wsClientErrChan:    make(chan error, 1),
		clientWaitGroup:    &sync.WaitGroup{},
	}, nil
}

// Start connects to the server and starts reading its messages.
func (m *NetworkManager) Start() error {
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), ConnectTimeout)
	defer cancelConnect()
	if err := m.wsClient.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelClientCtx = cancel
	m.connected = true

	m.clientWaitGroup.Add(1)
	go func(ctx context.Context) {
		defer m.clientWaitGroup.Done()
		m.wsClientErrChan <- m.wsClient.HandleMessages(ctx)
	}(ctx)

	return nil
}

// Stop closes the connection and waits for the reader to exit.
func (m *NetworkManager) Stop() {
	if !m.connected {
		return
	}
	m.connected = false

	m.cancelClientCtx()
	if err := m.wsClient.Close(); err != nil {
		log.Debug("Failed to close WebSocket connection: %v", err)
	}
	m.clientWaitGroup.Wait()
}

func (m *NetworkManager) IsConnected() bool {
	return m.connected
}

// ServerMessageQueue holds the decoded server messages not yet consumed.
func (m *NetworkManager) ServerMessageQueue() queue.Queue {
	return m.serverMessageQueue
}

// ErrChan receives the reason the connection ended.
func (m *NetworkManager) ErrChan() <-chan error {
	return m.wsClientErrChan
}

// SendPaddleMove asks the server to move the local paddle one step.
func (m *NetworkManager) SendPaddleMove(direction types.Direction) error {
	msg, err := messages.NewMessage(messages.MessageTypeClientPaddleMove, direction)
	if err != nil {
		return fmt.Errorf("failed to create paddle move message: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), SendTimeout)
	defer cancel()
	return m.wsClient.SendMessage(ctx, msg)
}
