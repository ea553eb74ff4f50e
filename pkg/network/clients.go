package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 16
	// ClientSendQueueSize is the number of outgoing messages buffered per client
	ClientSendQueueSize = 256
	// ClientWriteTimeout bounds a single frame write
	ClientWriteTimeout = 5 * time.Second
)

var (
	// ErrClientNotFound is returned when a client ID is not connected
	ErrClientNotFound = errors.New("client not found")
	// ErrSendQueueFull is returned when a client is not draining its messages
	ErrSendQueueFull = errors.New("send queue full")
	// ErrClientClosed is returned when sending to a client that is closing
	ErrClientClosed = errors.New("client closed")
)

type outgoingMessage struct {
	msg         *messages.Message
	close       bool
	closeReason string
}

// Client represents a connected client. Writes to the connection happen only
// on the client's write loop, in the order messages were queued.
type Client struct {
	ID     uuid.UUID
	WSConn *websocket.Conn
	Codec  messages.Codec

	sendQueue chan outgoingMessage
	done      chan struct{}
	doneOnce  sync.Once
}

func newClient(id uuid.UUID, conn *websocket.Conn, codec messages.Codec) *Client {
	return &Client{
		ID:        id,
		WSConn:    conn,
		Codec:     codec,
		sendQueue: make(chan outgoingMessage, ClientSendQueueSize),
		done:      make(chan struct{}),
	}
}

// Send queues a message without blocking.
func (c *Client) Send(msg *messages.Message) error {
	return c.enqueue(outgoingMessage{msg: msg})
}

// Close queues a close frame behind any pending messages.
func (c *Client) Close(reason string) error {
	return c.enqueue(outgoingMessage{close: true, closeReason: reason})
}

func (c *Client) enqueue(out outgoingMessage) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.sendQueue <- out:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// stop ends the write loop. Pending messages are discarded.
func (c *Client) stop() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// writeLoop drains the send queue until the client is stopped, ctx is done or
// a close is requested.
func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case out := <-c.sendQueue:
			if out.close {
				log.Debug("Closing connection for client %s: %s", c.ID, out.closeReason)
				if err := c.WSConn.Close(websocket.StatusTryAgainLater, out.closeReason); err != nil {
					log.Debug("Close handshake with client %s failed: %v", c.ID, err)
				}
				c.stop()
				return
			}
			if err := c.write(ctx, out.msg); err != nil {
				log.Error("Failed to write %s to client %s: %v", out.msg.Type, c.ID, err)
			}
		}
	}
}

func (c *Client) write(ctx context.Context, msg *messages.Message) error {
	b, err := c.Codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %v", err)
	}

	messageType := websocket.MessageText
	if c.Codec.Binary() {
		messageType = websocket.MessageBinary
	}

	ctx, cancel := context.WithTimeout(ctx, ClientWriteTimeout)
	defer cancel()
	if err := c.WSConn.Write(ctx, messageType, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[uuid.UUID]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[uuid.UUID]*Client),
	}
}

// ConnectClient registers a new connection and returns its client.
func (cm *ClientManager) ConnectClient(conn *websocket.Conn, codec messages.Codec) (*Client, error) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	client := newClient(clientID, conn, codec)
	cm.clients[clientID] = client

	return client, nil
}

// DisconnectClient removes a client from the manager and stops its write loop.
func (cm *ClientManager) DisconnectClient(clientID uuid.UUID) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return
	}
	client.stop()
	delete(cm.clients, clientID)
}

// GetClient returns a connected client.
func (cm *ClientManager) GetClient(clientID uuid.UUID) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// Count returns the number of connected clients, seated or not.
func (cm *ClientManager) Count() int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return len(cm.clients)
}

// generateUniqueID generates a unique client ID with a maximum number of retries
// it reads from the clients, so it needs to be locked before calling
func (cm *ClientManager) generateUniqueID(maxRetries int) (uuid.UUID, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id, err := uuid.NewRandom()
		if err != nil {
			return uuid.Nil, err
		}
		if _, ok := cm.clients[id]; !ok {
			return id, nil
		}
	}

	return uuid.Nil, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
