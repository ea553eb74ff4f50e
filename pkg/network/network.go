package network

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/cbodonnell/pong/pkg/queue"
	"github.com/cbodonnell/pong/pkg/state"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	// DisconnectEnqueueTimeout bounds how long a closing connection waits for
	// room in the event queue. A lost disconnect would leave a side occupied.
	DisconnectEnqueueTimeout = 5 * time.Second
)

// NetworkManager turns connections and their messages into game events and
// delivers the game's messages back to clients.
type NetworkManager struct {
	ClientManager *ClientManager
	EventQueue    queue.Queue
	WSServer      *WSServer
}

type NewNetworkManagerOptions struct {
	ClientManager  *ClientManager
	EventQueue     queue.Queue
	WSPort         int
	WSServerTLS    *TLSConfig
	StaticDir      string
	OriginPatterns []string
	StateManager   state.StateManager
}

func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	n := &NetworkManager{
		ClientManager: options.ClientManager,
		EventQueue:    options.EventQueue,
	}
	n.WSServer = NewWSServer(NewWSServerOptions{
		Port:              options.WSPort,
		TLS:               options.WSServerTLS,
		StaticDir:         options.StaticDir,
		OriginPatterns:    options.OriginPatterns,
		StateManager:      options.StateManager,
		ConnectHandler:    n.handleConnect,
		DisconnectHandler: n.handleDisconnect,
		MessageHandler:    n.handleMessage,
	})
	return n
}

// Start serves until ctx is done.
func (n *NetworkManager) Start(ctx context.Context) error {
	return n.WSServer.Start(ctx)
}

// Handler returns the HTTP handler of the WebSocket server.
func (n *NetworkManager) Handler() http.Handler {
	return n.WSServer.Handler()
}

func (n *NetworkManager) handleConnect(ctx context.Context, conn *websocket.Conn, codec messages.Codec) (*Client, error) {
	client, err := n.ClientManager.ConnectClient(conn, codec)
	if err != nil {
		return nil, fmt.Errorf("failed to connect client: %v", err)
	}

	if err := n.EventQueue.Enqueue(&types.ConnectPlayerEvent{ClientID: client.ID}); err != nil {
		n.ClientManager.DisconnectClient(client.ID)
		return nil, fmt.Errorf("failed to enqueue connect event: %v", err)
	}

	go client.writeLoop(ctx)
	log.Info("Client %s connected, %d connections open", client.ID, n.ClientManager.Count())

	return client, nil
}

func (n *NetworkManager) handleDisconnect(client *Client) {
	n.ClientManager.DisconnectClient(client.ID)
	log.Info("Client %s disconnected", client.ID)

	ctx, cancel := context.WithTimeout(context.Background(), DisconnectEnqueueTimeout)
	defer cancel()
	if err := n.EventQueue.EnqueueContext(ctx, &types.DisconnectPlayerEvent{ClientID: client.ID}); err != nil {
		log.Error("Failed to enqueue disconnect event for client %s: %v", client.ID, err)
	}
}

func (n *NetworkManager) handleMessage(ctx context.Context, client *Client, message *messages.Message) {
	switch message.Type {
	case messages.MessageTypeClientPaddleMove:
		var payload string
		if err := message.DecodePayload(&payload); err != nil {
			log.Debug("Dropping paddle move from client %s: %v", client.ID, err)
			return
		}
		direction, err := types.ParseDirection(payload)
		if err != nil {
			log.Debug("Dropping paddle move from client %s: %v", client.ID, err)
			return
		}
		if err := n.EventQueue.Enqueue(&types.PaddleMoveEvent{ClientID: client.ID, Direction: direction}); err != nil {
			log.Error("Failed to enqueue paddle move for client %s: %v", client.ID, err)
		}
	default:
		log.Debug("Ignoring message of type %s from client %s", message.Type, client.ID)
	}
}

// SendMessageToClient queues a message for one client without blocking.
func (n *NetworkManager) SendMessageToClient(ctx context.Context, clientID uuid.UUID, msg *messages.Message) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %s: %v", clientID, err)
	}

	if err := client.Send(msg); err != nil {
		return fmt.Errorf("failed to queue %s for client %s: %v", msg.Type, clientID, err)
	}

	return nil
}

// CloseClient closes a client's connection after its pending messages.
func (n *NetworkManager) CloseClient(ctx context.Context, clientID uuid.UUID, reason string) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %s: %v", clientID, err)
	}

	if err := client.Close(reason); err != nil {
		// the queue is backed up, so skip the pending messages
		client.stop()
		if closeErr := client.WSConn.Close(websocket.StatusTryAgainLater, reason); closeErr != nil {
			log.Debug("Close handshake with client %s failed: %v", clientID, closeErr)
		}
		return fmt.Errorf("failed to queue close for client %s: %v", clientID, err)
	}

	return nil
}
