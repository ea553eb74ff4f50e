package network

import (
	"fmt"

	"nhooyr.io/websocket"
)

// ErrConnectionClosedByServer is returned when the server closes the connection
type ErrConnectionClosedByServer struct {
	Status websocket.StatusCode
	Reason string
}

func (e *ErrConnectionClosedByServer) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("connection closed by server: %v", e.Status)
	}
	return fmt.Sprintf("connection closed by server: %v: %s", e.Status, e.Reason)
}

// ErrConnectionClosedByClient is returned when the client closes the connection
type ErrConnectionClosedByClient struct{}

func (e *ErrConnectionClosedByClient) Error() string {
	return "connection closed by client"
}
