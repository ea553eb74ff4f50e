package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/cbodonnell/pong/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

// newFakeServer seats every client on the left, echoes the first paddle
// move back as its side and then closes with 1013.
func newFakeServer(t *testing.T, received chan<- *messages.Message) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols: messages.Subprotocols(),
		})
		if err != nil {
			return
		}
		codec, err := messages.CodecForSubprotocol(conn.Subprotocol())
		if err != nil {
			conn.Close(websocket.StatusProtocolError, "")
			return
		}
		messageType := websocket.MessageText
		if codec.Binary() {
			messageType = websocket.MessageBinary
		}

		ctx := r.Context()
		assigned, _ := messages.NewMessage(messages.MessageTypeServerPlayerAssigned, types.SideLeft)
		b, _ := codec.Encode(assigned)
		if err := conn.Write(ctx, messageType, b); err != nil {
			return
		}

		_, b, err = conn.Read(ctx)
		if err != nil {
			return
		}
		msg, err := codec.Decode(b)
		if err != nil {
			return
		}
		received <- msg

		conn.Close(websocket.StatusTryAgainLater, "game is full")
	}))
	t.Cleanup(server.Close)
	return server
}

func waitForMessage(t *testing.T, q queue.Queue) *messages.Message {
	t.Helper()
	select {
	case item := <-q.Chan():
		msg, ok := item.(*messages.Message)
		require.True(t, ok)
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server message")
		return nil
	}
}

func TestNetworkManager(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "json"
		if compress {
			name = "zstd"
		}
		t.Run(name, func(t *testing.T) {
			received := make(chan *messages.Message, 1)
			server := newFakeServer(t, received)

			q := queue.NewInMemoryQueue(16)
			m, err := NewNetworkManager(NewNetworkManagerOptions{
				ServerURL:    "ws" + strings.TrimPrefix(server.URL, "http"),
				Compress:     compress,
				MessageQueue: q,
			})
			require.NoError(t, err)
			require.NoError(t, m.Start())
			defer m.Stop()
			assert.True(t, m.IsConnected())

			msg := waitForMessage(t, m.ServerMessageQueue())
			assert.Equal(t, messages.MessageTypeServerPlayerAssigned, msg.Type)

			require.NoError(t, m.SendPaddleMove(types.DirectionDown))
			select {
			case move := <-received:
				assert.Equal(t, messages.MessageTypeClientPaddleMove, move.Type)
				var direction types.Direction
				require.NoError(t, move.DecodePayload(&direction))
				assert.Equal(t, types.DirectionDown, direction)
			case <-time.After(5 * time.Second):
				t.Fatal("server did not receive the paddle move")
			}

			select {
			case err := <-m.ErrChan():
				var closedErr *ErrConnectionClosedByServer
				require.True(t, errors.As(err, &closedErr), "unexpected error: %v", err)
				assert.Equal(t, websocket.StatusTryAgainLater, closedErr.Status)
				assert.Equal(t, "game is full", closedErr.Reason)
			case <-time.After(5 * time.Second):
				t.Fatal("connection did not end")
			}
		})
	}
}

func TestNetworkManager_connectFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	m, err := NewNetworkManager(NewNetworkManagerOptions{
		ServerURL:    "ws" + strings.TrimPrefix(server.URL, "http"),
		MessageQueue: queue.NewInMemoryQueue(1),
	})
	require.NoError(t, err)
	assert.Error(t, m.Start())
	assert.False(t, m.IsConnected())

	// stopping a manager that never connected is a no-op
	m.Stop()
}

func TestNetworkManager_StopEndsReader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols: messages.Subprotocols(),
		})
		if err != nil {
			return
		}
		// hold the connection open until the client leaves
		conn.Read(context.Background())
	}))
	defer server.Close()

	m, err := NewNetworkManager(NewNetworkManagerOptions{
		ServerURL:    "ws" + strings.TrimPrefix(server.URL, "http"),
		MessageQueue: queue.NewInMemoryQueue(1),
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	m.Stop()
	assert.False(t, m.IsConnected())

	err = <-m.ErrChan()
	var closedErr *ErrConnectionClosedByClient
	assert.True(t, errors.As(err, &closedErr), "unexpected error: %v", err)
}
