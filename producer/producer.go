// Package producer drives pongengine forward rally by rally and assembles
// the resulting CompactLog: at each paddle-plane event it logs leftY then
// rightY, committing the even-indexed entry with the left seed and the
// odd-indexed entry with the right seed (spec §4.5).
package producer

import (
	"fmt"

	"github.com/pongfair/pongcore/commitment"
	"github.com/pongfair/pongcore/fixedpoint"
	"github.com/pongfair/pongcore/pongconfig"
	"github.com/pongfair/pongcore/pongengine"
	"github.com/pongfair/pongcore/wire"
)

// ErrMaxEventsExceeded is returned when a match would log more entries than
// pongconfig.MaxEvents permits. The producer stops without appending.
var ErrMaxEventsExceeded = fmt.Errorf("producer: match reached %d logged events", pongconfig.MaxEvents)

// Match drives one complete game from serve to POINTS_TO_WIN, producing the
// CompactLog the validator and guest consume.
type Match struct {
	gameID      uint32
	leftSeed    commitment.Seed
	rightSeed   commitment.Seed
	leftScore   int
	rightScore  int
	events      []int64
	commitments [][32]byte
	serveTo     pongengine.Side
}

// NewMatch starts a fresh match for gameID with freshly generated seeds.
func NewMatch(gameID uint32) (*Match, error) {
	left, err := commitment.GenerateSeed()
	if err != nil {
		return nil, fmt.Errorf("producer: generating left seed: %w", err)
	}
	right, err := commitment.GenerateSeed()
	if err != nil {
		return nil, fmt.Errorf("producer: generating right seed: %w", err)
	}
	return NewMatchWithSeeds(gameID, left, right), nil
}

// NewMatchWithSeeds starts a match with caller-supplied seeds — used by
// tests and by relay sessions where each peer supplies its own seed.
func NewMatchWithSeeds(gameID uint32, left, right commitment.Seed) *Match {
	return &Match{
		gameID:    gameID,
		leftSeed:  left,
		rightSeed: right,
		serveTo:   pongengine.Side(pongconfig.InitialServeDirection),
	}
}

// LeftScore and RightScore report the running score.
func (m *Match) LeftScore() int  { return m.leftScore }
func (m *Match) RightScore() int { return m.rightScore }

// Done reports whether either side has reached PointsToWin.
func (m *Match) Done() bool {
	return m.leftScore >= pongconfig.PointsToWin || m.rightScore >= pongconfig.PointsToWin
}

// logPair appends one event's leftY then rightY, each committed with its
// own side's seed at its own index (even = left, odd = right).
func (m *Match) logPair(leftY, rightY fixedpoint.Q) error {
	if len(m.events)+2 > pongconfig.MaxEvents {
		return ErrMaxEventsExceeded
	}
	leftIdx := uint32(len(m.events))
	rightIdx := leftIdx + 1
	m.events = append(m.events, int64(leftY), int64(rightY))
	m.commitments = append(m.commitments,
		commitment.Compute(m.leftSeed, leftIdx, int64(leftY)),
		commitment.Compute(m.rightSeed, rightIdx, int64(rightY)),
	)
	return nil
}

// PlayRally runs one rally to completion: serve, alternating paddle-plane
// events, terminating in a miss (one point scored) or a MaxEvents fault.
func (m *Match) PlayRally() error {
	k := len(m.events)
	s := pongengine.Serve(k, m.gameID, m.serveTo)

	leftMotion := pongengine.PaddleMotion{Y0: s.LeftY, T0: s.T0, Target: s.LeftY}
	rightMotion := pongengine.PaddleMotion{Y0: s.RightY, T0: s.T0, Target: s.RightY}

	for {
		dt, err := pongengine.TimeToPaddle(s)
		if err != nil {
			return fmt.Errorf("producer: %w", err)
		}
		eventT := s.T0 + dt
		yAtHit := pongengine.BallYAtEvent(s, dt)

		receiverMotion, nonReceiverMotion := &rightMotion, &leftMotion
		if s.Dir == pongengine.Left {
			receiverMotion, nonReceiverMotion = &leftMotion, &rightMotion
		}

		predicted := pongengine.PaddleYAt(*receiverMotion, eventT)
		receiverMotion.Target = pongengine.PlanReceiverTarget(predicted, len(m.events), m.gameID)
		nonReceiverMotion.Target = pongengine.PlanNonReceiverTarget()

		leftY := pongengine.PaddleYAt(leftMotion, eventT)
		rightY := pongengine.PaddleYAt(rightMotion, eventT)

		if err := m.logPair(leftY, rightY); err != nil {
			return err
		}

		leftMotion.Y0, leftMotion.T0 = leftY, eventT
		rightMotion.Y0, rightMotion.T0 = rightY, eventT

		var receiverY fixedpoint.Q
		if s.Dir == pongengine.Left {
			receiverY = leftY
		} else {
			receiverY = rightY
		}

		if !pongengine.Hit(receiverY, yAtHit) {
			if s.Dir == pongengine.Left {
				m.rightScore++
				m.serveTo = pongengine.Right
			} else {
				m.leftScore++
				m.serveTo = pongengine.Left
			}
			return nil
		}

		vx, vy, speed, dir, err := pongengine.Bounce(yAtHit, receiverY, s.Speed, s.Dir)
		if err != nil {
			return fmt.Errorf("producer: %w", err)
		}
		s = pongengine.FixState{
			T0: eventT, X: pongengine.ContactX(s.Dir), Y: yAtHit,
			VX: vx, VY: vy, Speed: speed,
			LeftY: leftY, RightY: rightY,
			Dir: dir,
		}
	}
}

// Play runs rallies until one side reaches PointsToWin.
func (m *Match) Play() error {
	for !m.Done() {
		if err := m.PlayRally(); err != nil {
			return err
		}
	}
	return nil
}

// Events returns a copy of the raw Q16.16 event stream logged so far.
// Relay peers use this as their locally-predicted authoritative stream:
// any two engines sharing a game_id produce it identically.
func (m *Match) Events() []int64 {
	out := make([]int64, len(m.events))
	copy(out, m.events)
	return out
}

// Log assembles the completed match's CompactLog.
func (m *Match) Log() wire.CompactLog {
	commitHex := make([]string, len(m.commitments))
	for i, c := range m.commitments {
		commitHex[i] = commitment.Hex(c)
	}
	return wire.CompactLog{
		V:               1,
		GameID:          m.gameID,
		Events:          wire.EncodeEvents(m.events),
		Commitments:     commitHex,
		PlayerLeftSeed:  m.leftSeed.Hex(),
		PlayerRightSeed: m.rightSeed.Hex(),
	}
}
