package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/pong/pkg/log"
	"github.com/cbodonnell/pong/pkg/messages"
	"github.com/google/uuid"
)

// ServerMessage is a message produced by the game loop for delivery to clients.
type ServerMessage struct {
	// ClientIDs are the recipients. Every recipient gets the same payload.
	ClientIDs []uuid.UUID
	Type      messages.MessageType
	Message   interface{}
	// Close terminates each recipient's connection once the message is written.
	Close       bool
	CloseReason string
}

// MessageSender delivers messages to connected clients.
type MessageSender interface {
	SendMessageToClient(ctx context.Context, clientID uuid.UUID, msg *messages.Message) error
	CloseClient(ctx context.Context, clientID uuid.UUID, reason string) error
}

type ServerMessageWorker struct {
	sender            MessageSender
	serverMessageChan <-chan ServerMessage
}

type NewServerMessageWorkerOptions struct {
	Sender            MessageSender
	ServerMessageChan <-chan ServerMessage
}

// NewServerMessageWorker creates a worker that takes messages off the game
// loop's channel, marshals each one once and hands it to the sender for every
// recipient. The game loop never waits on the network.
func NewServerMessageWorker(opts NewServerMessageWorkerOptions) *ServerMessageWorker {
	return &ServerMessageWorker{
		sender:            opts.Sender,
		serverMessageChan: opts.ServerMessageChan,
	}
}

func (w *ServerMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.serverMessageChan:
			if err := w.handleServerMessage(ctx, msg); err != nil {
				log.Error("Failed to handle server message %s: %v", msg.Type, err)
			}
		}
	}
}

func (w *ServerMessageWorker) handleServerMessage(ctx context.Context, sm ServerMessage) error {
	msg, err := messages.NewMessage(sm.Type, sm.Message)
	if err != nil {
		return fmt.Errorf("failed to create message: %v", err)
	}

	var errs []error
	for _, clientID := range sm.ClientIDs {
		if err := w.sender.SendMessageToClient(ctx, clientID, msg); err != nil {
			errs = append(errs, fmt.Errorf("failed to send message to client %s: %v", clientID, err))
		}

		// a rejected client is closed even if the notice could not be queued
		if sm.Close {
			if err := w.sender.CloseClient(ctx, clientID, sm.CloseReason); err != nil {
				errs = append(errs, fmt.Errorf("failed to close client %s: %v", clientID, err))
			}
		}
	}

	return errors.Join(errs...)
}
