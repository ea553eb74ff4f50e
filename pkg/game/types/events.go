package types

import "github.com/google/uuid"

// ConnectPlayerEvent is queued when a connection is accepted.
type ConnectPlayerEvent struct {
	ClientID uuid.UUID
}

// DisconnectPlayerEvent is queued when a connection is closed for any reason.
type DisconnectPlayerEvent struct {
	ClientID uuid.UUID
}

// PaddleMoveEvent is queued for every paddleMove message a client sends.
type PaddleMoveEvent struct {
	ClientID  uuid.UUID
	Direction Direction
}
