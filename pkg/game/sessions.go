package game

import (
	"errors"

	"github.com/cbodonnell/pong/pkg/game/types"
	"github.com/google/uuid"
)

// ErrGameFull is returned by Assign when both sides are taken.
var ErrGameFull = errors.New("game is full")

// SessionManager maps connections to sides. It holds at most one connection
// per side and is only used from the game loop.
type SessionManager struct {
	sides map[uuid.UUID]types.Side
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sides: make(map[uuid.UUID]types.Side, 2),
	}
}

// Assign gives the connection a side. The first connection gets left. The
// second gets whichever side is free and secondJoined is true. Any further
// connection gets ErrGameFull. Assigning an already seated connection returns
// its current side.
func (s *SessionManager) Assign(clientID uuid.UUID) (side types.Side, secondJoined bool, err error) {
	if side, ok := s.sides[clientID]; ok {
		return side, false, nil
	}

	switch len(s.sides) {
	case 0:
		s.sides[clientID] = types.SideLeft
		return types.SideLeft, false, nil
	case 1:
		free := types.SideRight
		for _, taken := range s.sides {
			free = taken.Opposite()
		}
		s.sides[clientID] = free
		return free, true, nil
	default:
		return "", false, ErrGameFull
	}
}

// Release removes the connection and reports whether it held a side.
func (s *SessionManager) Release(clientID uuid.UUID) bool {
	if _, ok := s.sides[clientID]; !ok {
		return false
	}
	delete(s.sides, clientID)
	return true
}

// Side returns the side held by a connection.
func (s *SessionManager) Side(clientID uuid.UUID) (types.Side, bool) {
	side, ok := s.sides[clientID]
	return side, ok
}

// ClientIDs returns the seated connections, left side first.
func (s *SessionManager) ClientIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.sides))
	for _, want := range []types.Side{types.SideLeft, types.SideRight} {
		for id, side := range s.sides {
			if side == want {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Count returns the number of seated connections.
func (s *SessionManager) Count() int {
	return len(s.sides)
}

// Full reports whether both sides are taken.
func (s *SessionManager) Full() bool {
	return len(s.sides) == 2
}
