// Package pongconfig holds the domain constants shared, unmodified,
// between the producer, the validator and the zk guest, plus the ambient
// operational settings (storage TTLs, websocket buffer sizes) for the
// relay server — laid out the way the teacher's config package groups
// const blocks by concern.
package pongconfig

import "time"

/* =========================
   GAME BOARD
========================= */

const (
	Width  = 800
	Height = 480

	PaddleHeight = 80
	PaddleWidth  = 10
	PaddleMargin = 16
	BallRadius   = 6
)

/* =========================
   GAME MECHANICS
========================= */

const (
	PaddleMaxSpeed      = 200
	ServeSpeed          = 500
	SpeedIncrement      = 50
	MaxBounceAngleDeg   = 60
	AngleRange          = 121
	ServeAngleMultiplier = 37
	PointsToWin         = 3

	// InitialServeDirection: +1 serves toward the right-hand paddle.
	InitialServeDirection = 1

	// MaxEvents bounds individual logged entries (each left or right Y
	// counts once), not pairs: 10000 entries is 5000 paddle-plane events.
	MaxEvents = 10000
)

/* =========================
   RELAY SERVER
========================= */

const (
	WSReadDeadline  = 60 * time.Second
	WSWriteDeadline = 10 * time.Second
	WSPingInterval  = 30 * time.Second

	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024

	// MaxMessageSize bounds a single relay envelope; independent of the
	// host's 10MB whole-log cap (§6 of the spec).
	MaxMessageSize = 64 * 1024

	// PeerWaitTimeout bounds how long a peer waits for the opponent's
	// authoritative paddle position before treating the session as a
	// connectivity fault (spec §5: advisory, never mutates the log).
	PeerWaitTimeout = 15 * time.Second
)

/* =========================
   HOST FILE HANDLING
========================= */

const (
	// MaxLogFileBytes is the cap enforced before a CompactLog is even
	// deserialised (spec §6).
	MaxLogFileBytes = 10 * 1024 * 1024
)

/* =========================
   STORAGE
========================= */

const (
	// PostgresMaxConns / MinConns mirror the teacher's pool sizing.
	PostgresMaxConns    = 25
	PostgresMinConns    = 5
	PostgresMaxConnLife = 5 * time.Minute

	// RelaySessionTTL bounds how long an in-flight relay session's Redis
	// state survives without activity before it is treated as abandoned.
	RelaySessionTTL = 1 * time.Hour
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	// RedisSessionKey: relay:session:{sessionId} -> serialized session snapshot.
	RedisSessionKey = "relay:session:%s"
)
