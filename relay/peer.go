package relay

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pongfair/pongcore/commitment"
	"github.com/pongfair/pongcore/pongconfig"
	"github.com/pongfair/pongcore/producer"
	"github.com/pongfair/pongcore/wire"
)

// Peer is the client half of the relay protocol: it runs the full
// deterministic engine locally, announces its own paddle's Y at each
// event, and predicts the opponent's Y without waiting for the relay.
// The true opponent value arrives later via opponent_paddle and is
// compared against the prediction; a mismatch is a desync warning, never
// a log mutation (spec §4.7).
type Peer struct {
	role   Role
	gameID uint32
	seed   commitment.Seed

	// events is the locally-simulated authoritative stream. Because both
	// peers share game_id and integer math, each computes it in full
	// before the first message is exchanged.
	events []int64

	mu      sync.Mutex
	desyncs []uint32
}

// NewPeer simulates the whole match for gameID locally and returns a peer
// ready to announce role's half of every event.
func NewPeer(role Role, gameID uint32, seed commitment.Seed) (*Peer, error) {
	m := producer.NewMatchWithSeeds(gameID, commitment.Seed{}, commitment.Seed{})
	if err := m.Play(); err != nil {
		return nil, fmt.Errorf("relay: simulating match %d: %w", gameID, err)
	}
	return &Peer{role: role, gameID: gameID, seed: seed, events: m.Events()}, nil
}

// Pairs returns how many paddle-plane events the local simulation reached.
func (p *Peer) Pairs() int { return len(p.events) / 2 }

// ownGlobalIndex maps a pair index to this side's interleaved commitment
// index: left owns the even slots, right the odd ones. Committing at a
// local per-peer counter instead is a protocol bug the validator rejects.
func (p *Peer) ownGlobalIndex(pair int) uint32 {
	if p.role == RoleLeft {
		return uint32(2 * pair)
	}
	return uint32(2*pair + 1)
}

// OwnY returns this side's simulated paddle Y for the given pair.
func (p *Peer) OwnY(pair int) int64 {
	return p.events[int(p.ownGlobalIndex(pair))]
}

// PredictedOpponentY returns the locally-predicted opponent Y for the
// given pair — consumed immediately to keep the engine flowing.
func (p *Peer) PredictedOpponentY(pair int) int64 {
	idx := 2 * pair
	if p.role == RoleLeft {
		idx++
	}
	return p.events[idx]
}

// PaddleMessage builds the paddle_position announcement for pair,
// committed with this peer's own seed at the global interleaved index.
func (p *Peer) PaddleMessage(pair int) PaddlePosition {
	y := p.OwnY(pair)
	c := commitment.Compute(p.seed, p.ownGlobalIndex(pair), y)
	return PaddlePosition{
		Role:       p.role,
		EventIndex: uint32(pair),
		PaddleY:    wire.EncodeEvent(y),
		Commitment: commitment.Hex(c),
	}
}

// CheckOpponent compares a late-arriving authoritative opponent_paddle
// against the local prediction for the same pair. It returns false and
// records the pair on mismatch — a connectivity/desync warning only; the
// local engine has already advanced on the prediction.
func (p *Peer) CheckOpponent(msg OpponentPaddle) bool {
	pair := int(msg.EventIndex)
	if pair >= p.Pairs() {
		return false
	}
	got, err := wire.DecodeEvent(msg.PaddleY)
	if err != nil || got != p.PredictedOpponentY(pair) {
		p.mu.Lock()
		p.desyncs = append(p.desyncs, msg.EventIndex)
		p.mu.Unlock()
		log.Printf("⚠️  relay: peer %s desync at event %d: predicted %d got %q", p.role, msg.EventIndex, p.PredictedOpponentY(pair), msg.PaddleY)
		return false
	}
	return true
}

// Desyncs returns the pair indices where the opponent's authoritative
// value disagreed with the local prediction.
func (p *Peer) Desyncs() []uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uint32, len(p.desyncs))
	copy(out, p.desyncs)
	return out
}

// Seal reveals this peer's commitment seed for end-of-match log assembly.
func (p *Peer) Seal() PlayerLog {
	return PlayerLog{Role: p.role, Seed: p.seed.Hex()}
}

// Transport abstracts where a peer's envelopes go — a live websocket in
// production, a Session directly in tests.
type Transport interface {
	Send(kind Kind, data any) error
}

// Run announces every event's paddle_position in order, then reveals the
// seed via player_log. After each announcement it waits for the
// opponent's authoritative half on the opponent channel before moving to
// the next pair — the relay holds at most one pending half-event, so
// racing ahead would desync the session. The wait is pacing only: the
// local engine already advanced on its prediction, and the arriving value
// is just compared against it. A timeout is a connectivity fault; no
// partial log is emitted.
func (p *Peer) Run(ctx context.Context, t Transport, opponent <-chan OpponentPaddle) error {
	for i := 0; i < p.Pairs(); i++ {
		if err := t.Send(KindPaddlePosition, p.PaddleMessage(i)); err != nil {
			return fmt.Errorf("relay: announcing event %d: %w", i, err)
		}
		select {
		case msg, ok := <-opponent:
			if !ok {
				return fmt.Errorf("relay: opponent disconnected at event %d", i)
			}
			p.CheckOpponent(msg)
		case <-time.After(pongconfig.PeerWaitTimeout):
			return fmt.Errorf("relay: timed out waiting for opponent at event %d", i)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := t.Send(KindPlayerLog, p.Seal()); err != nil {
		return fmt.Errorf("relay: revealing seed: %w", err)
	}
	return nil
}
