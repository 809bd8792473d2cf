// Package relay assembles the canonical event stream for a two-peer match
// over a line-delimited JSON WebSocket envelope (spec §4.7), adapted from
// the teacher's ws package: one ClientConnection per socket, a read/write
// pump pair, and a single upgrade handler dispatching on message type.
package relay

import (
	"encoding/json"

	"github.com/pongfair/pongcore/wire"
)

// Kind tags a relay envelope's message type (spec §4.7).
type Kind string

const (
	KindGameStart            Kind = "game_start"
	KindOpponentConnected    Kind = "opponent_connected"
	KindPlayerReady          Kind = "player_ready"
	KindGameReady            Kind = "game_ready"
	KindPaddlePosition       Kind = "paddle_position"
	KindOpponentPaddle       Kind = "opponent_paddle"
	KindPlayerLog            Kind = "player_log"
	KindGameEnd              Kind = "game_end"
	KindOpponentDisconnected Kind = "opponent_disconnected"
)

// Role identifies which side of the match a peer plays.
type Role string

const (
	RoleLeft  Role = "left"
	RoleRight Role = "right"
)

// Envelope is the outer line-delimited JSON message. Data carries a
// kind-specific payload; callers decode it a second time into the
// concrete struct once Type is known.
type Envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// GameStart is sent to a peer on join: the game_id it should use and the
// role the relay assigned it.
type GameStart struct {
	GameID uint32 `json:"gameId"`
	Role   Role   `json:"role"`
}

// OpponentConnected notifies a peer that the other side has joined.
type OpponentConnected struct {
	Role Role `json:"role"`
}

// PlayerReady carries no payload beyond the envelope's type; the relay
// tracks readiness per connection.
type PlayerReady struct{}

// GameReady is broadcast to both peers once both have signaled ready.
type GameReady struct {
	GameID uint32 `json:"gameId"`
}

// PaddlePosition is a peer's report of its own paddle's Y at eventIndex,
// committed with the side's own seed (spec §4.7, §6).
type PaddlePosition struct {
	Role       Role   `json:"role"`
	EventIndex uint32 `json:"eventIndex"`
	PaddleY    string `json:"paddleY"`
	Commitment string `json:"commitment"`
}

// OpponentPaddle echoes the assembled pair's other half back to the peer
// that is still waiting on it.
type OpponentPaddle struct {
	EventIndex uint32 `json:"eventIndex"`
	PaddleY    string `json:"paddleY"`
}

// PlayerLog carries one side's seed at match end, for CompactLog assembly.
type PlayerLog struct {
	Role Role   `json:"role"`
	Seed string `json:"seed"`
}

// GameEnd carries the relay-assembled CompactLog to both peers.
type GameEnd struct {
	Log wire.CompactLog `json:"log"`
}

// OpponentDisconnected notifies the remaining peer of a connectivity fault.
type OpponentDisconnected struct {
	Role Role `json:"role"`
}
