package relay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pongfair/pongcore/commitment"
	"github.com/pongfair/pongcore/wire"
)

// ErrSessionFull is returned by Join when a session already hosts two peers.
var ErrSessionFull = errors.New("relay: session already has two peers")

// ErrDesync is returned when a paddle_position's eventIndex does not match
// the currently pending half-event (spec §4.7: a TransportFault).
var ErrDesync = errors.New("relay: eventIndex does not match pending event")

// pendingEvent is the relay's at-most-one half-filled event slot.
type pendingEvent struct {
	eventIndex  uint32
	haveLeft    bool
	haveRight   bool
	leftY       string
	rightY      string
	leftCommit  string
	rightCommit string
}

// Session hosts at most two peers for one match and assembles the
// authoritative interleaved event stream from their independent
// paddle_position reports (spec §4.7).
type Session struct {
	mu sync.Mutex

	gameID                  uint32
	leftJoined, rightJoined bool
	leftReady, rightReady   bool
	leftSeed, rightSeed     string

	pending *pendingEvent
	events  []string
	commits []string

	done bool
}

// NewSession starts an empty session for gameID.
func NewSession(gameID uint32) *Session {
	return &Session{gameID: gameID}
}

// Join assigns role to the next free seat. The first joiner becomes left,
// the second right; a third call fails.
func (s *Session) Join() (Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.leftJoined {
		s.leftJoined = true
		return RoleLeft, nil
	}
	if !s.rightJoined {
		s.rightJoined = true
		return RoleRight, nil
	}
	return "", ErrSessionFull
}

// SetReady marks role as having signaled player_ready and reports whether
// both sides are now ready (the caller should broadcast game_ready then).
func (s *Session) SetReady(role Role) (bothReady bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role == RoleLeft {
		s.leftReady = true
	} else {
		s.rightReady = true
	}
	return s.leftReady && s.rightReady
}

// SetSeed records role's commitment seed, used when GameEnd's log is built.
func (s *Session) SetSeed(role Role, seedHex string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == RoleLeft {
		s.leftSeed = seedHex
	} else {
		s.rightSeed = seedHex
	}
}

// ReportPaddle folds one peer's paddle_position into the pending
// half-event, returning the completed pair (ok=true) once both sides have
// reported for the same eventIndex (spec §4.7's event-assembly rule).
func (s *Session) ReportPaddle(role Role, msg PaddlePosition) (leftY, rightY string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.pending = &pendingEvent{eventIndex: msg.EventIndex}
	} else if s.pending.eventIndex != msg.EventIndex {
		return "", "", false, fmt.Errorf("%w: pending=%d got=%d", ErrDesync, s.pending.eventIndex, msg.EventIndex)
	}

	if role == RoleLeft {
		if s.pending.haveLeft {
			return "", "", false, fmt.Errorf("relay: duplicate left report for event %d", msg.EventIndex)
		}
		s.pending.haveLeft = true
		s.pending.leftY = msg.PaddleY
		s.pending.leftCommit = msg.Commitment
	} else {
		if s.pending.haveRight {
			return "", "", false, fmt.Errorf("relay: duplicate right report for event %d", msg.EventIndex)
		}
		s.pending.haveRight = true
		s.pending.rightY = msg.PaddleY
		s.pending.rightCommit = msg.Commitment
	}

	if !s.pending.haveLeft || !s.pending.haveRight {
		return "", "", false, nil
	}

	leftY, rightY = s.pending.leftY, s.pending.rightY
	s.events = append(s.events, leftY, rightY)
	s.commits = append(s.commits, s.pending.leftCommit, s.pending.rightCommit)
	s.pending = nil
	return leftY, rightY, true, nil
}

// Events returns a copy of the assembled authoritative event stream so
// far. Callers must not mutate session state through the returned slices.
func (s *Session) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

// Finish marks the session done and assembles the final CompactLog from
// the authoritative event stream and both sides' reported seeds.
func (s *Session) Finish() (wire.CompactLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.leftSeed == "" || s.rightSeed == "" {
		return wire.CompactLog{}, errors.New("relay: cannot finish session before both seeds are reported")
	}
	if _, err := commitment.SeedFromHex(s.leftSeed); err != nil {
		return wire.CompactLog{}, fmt.Errorf("relay: left seed: %w", err)
	}
	if _, err := commitment.SeedFromHex(s.rightSeed); err != nil {
		return wire.CompactLog{}, fmt.Errorf("relay: right seed: %w", err)
	}

	s.done = true
	return wire.CompactLog{
		V:               1,
		GameID:          s.gameID,
		Events:          append([]string(nil), s.events...),
		Commitments:     append([]string(nil), s.commits...),
		PlayerLeftSeed:  s.leftSeed,
		PlayerRightSeed: s.rightSeed,
	}, nil
}

// Snapshot is a serialisable view of a session's progress, taken after
// each completed pair so a restarted relay process can resume assembly.
type Snapshot struct {
	GameID      uint32
	Events      []string
	Commitments []string
	LeftSeed    string
	RightSeed   string
}

// Snapshot copies the session's current assembly state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		GameID:      s.gameID,
		Events:      append([]string(nil), s.events...),
		Commitments: append([]string(nil), s.commits...),
		LeftSeed:    s.leftSeed,
		RightSeed:   s.rightSeed,
	}
}

// Done reports whether Finish has already been called.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
