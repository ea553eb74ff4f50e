package network

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/cbodonnell/pong/pkg/queue"
	"nhooyr.io/websocket"
)

// WSClient represents a WebSocket client.
type WSClient struct {
	serverAddr   string
	codec        messages.Codec
	messageQueue queue.Queue
	conn         *websocket.Conn
}

// NewWSClient creates a new WebSocket client. Server messages are decoded
// and put on messageQueue in arrival order.
func NewWSClient(serverAddr string, codec messages.Codec, messageQueue queue.Queue) *WSClient {
	return &WSClient{
		serverAddr:   serverAddr,
		codec:        codec,
		messageQueue: messageQueue,
	}
}

// Connect establishes a connection to the WebSocket server.
func (c *WSClient) Connect(ctx context.Context) error {
	log.Info("Connecting to WebSocket server at %s using %s", c.serverAddr, c.codec.Subprotocol())
	conn, _, err := websocket.Dial(ctx, c.serverAddr, &websocket.DialOptions{
		Subprotocols: []string{c.codec.Subprotocol()},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	if conn.Subprotocol() != c.codec.Subprotocol() {
		conn.Close(websocket.StatusProtocolError, "unsupported subprotocol")
		return fmt.Errorf("server did not accept subprotocol %s", c.codec.Subprotocol())
	}
	c.conn = conn
	return nil
}

// HandleMessages reads messages from the server until the connection closes.
// It always returns a non-nil error describing why reading stopped.
func (c *WSClient) HandleMessages(ctx context.Context) error {
	for {
		_, b, err := c.conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return &ErrConnectionClosedByClient{}
			}
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) {
				return &ErrConnectionClosedByServer{Status: closeErr.Code, Reason: closeErr.Reason}
			}
			return fmt.Errorf("failed to read message: %v", err)
		}

		msg, err := c.codec.Decode(b)
		if err != nil {
			log.Error("Failed to decode server message: %v", err)
			continue
		}
		log.Trace("Received message from WebSocket server of type %s", msg.Type)

		if err := c.messageQueue.Enqueue(msg); err != nil {
			log.Warn("Dropping server message %s: %v", msg.Type, err)
		}
	}
}

// SendMessage sends a message to the WebSocket server.
func (c *WSClient) SendMessage(ctx context.Context, msg *messages.Message) error {
	b, err := c.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %v", err)
	}

	messageType := websocket.MessageText
	if c.codec.Binary() {
		messageType = websocket.MessageBinary
	}
	if err := c.conn.Write(ctx, messageType, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection was never opened")
		return nil
	}
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
