// Package validator re-simulates a CompactLog with the exact same engine
// constants the producer used and reports whether it is fair: reachable,
// in-bounds, correctly committed and correctly terminated. It never
// panics and never returns a Go error for a malformed log — every
// rejection is a Result with Fair=false and a one-line Reason.
package validator

import (
	"fmt"

	"github.com/pongfair/pongcore/commitment"
	"github.com/pongfair/pongcore/fixedpoint"
	"github.com/pongfair/pongcore/pongconfig"
	"github.com/pongfair/pongcore/pongengine"
	"github.com/pongfair/pongcore/wire"
)

// Result is the outcome of ValidateLog: never a Go error, always a
// judgement plus, on success, final scores.
type Result struct {
	Fair       bool
	Reason     string
	LeftScore  uint32
	RightScore uint32
	EventsLen  uint32
}

func reject(format string, args ...any) Result {
	return Result{Fair: false, Reason: fmt.Sprintf(format, args...)}
}

// ValidateLog re-simulates log and judges it fair or not (spec §4.6).
func ValidateLog(log wire.CompactLog) Result {
	if log.V != 1 {
		return reject("Malformed log: unsupported version %d", log.V)
	}
	if len(log.Events) == 0 {
		return reject("No events provided")
	}
	if len(log.Events)%2 != 0 {
		return reject("Malformed events length: %d is odd", len(log.Events))
	}
	if len(log.Events) > pongconfig.MaxEvents {
		return reject("Event count %d exceeds MAX_EVENTS", len(log.Events))
	}
	if len(log.Commitments) != len(log.Events) {
		return reject("Commitment count mismatch: %d commitments for %d events", len(log.Commitments), len(log.Events))
	}

	leftSeed, err := commitment.SeedFromHex(log.PlayerLeftSeed)
	if err != nil {
		return reject("Malformed player_left_seed: %v", err)
	}
	rightSeed, err := commitment.SeedFromHex(log.PlayerRightSeed)
	if err != nil {
		return reject("Malformed player_right_seed: %v", err)
	}
	if leftSeed == rightSeed {
		return reject("Players must use unique commitment seeds")
	}
	if leftSeed.NonzeroBytes() < 4 {
		return reject("player_left_seed has insufficient entropy")
	}
	if rightSeed.NonzeroBytes() < 4 {
		return reject("player_right_seed has insufficient entropy")
	}

	events, err := wire.DecodeEvents(log.Events)
	if err != nil {
		return reject("Non-numeric event value: %v", err)
	}

	for i, hex := range log.Commitments {
		seed := leftSeed
		if i%2 == 1 {
			seed = rightSeed
		}
		c := commitment.Compute(seed, uint32(i), events[i])
		if !commitment.Equal(hex, c) {
			return reject("Commitment verification failed at index %d", i)
		}
	}

	return replay(log.GameID, events)
}

// ReplayOnly runs the same physics replay ValidateLog does, skipping the
// seed and commitment checks. The guest boundary uses this: the host has
// already verified seeds and commitments before handing events to a
// guest circuit, which only needs to re-derive the kinematic judgement.
func ReplayOnly(gameID uint32, events []int64) Result {
	if len(events) == 0 {
		return reject("No events provided")
	}
	if len(events)%2 != 0 {
		return reject("Malformed events length: %d is odd", len(events))
	}
	if len(events) > pongconfig.MaxEvents {
		return reject("Event count %d exceeds MAX_EVENTS", len(events))
	}
	return replay(gameID, events)
}

// replay re-instantiates the engine at k=0 and steps it through every
// logged pair, applying reachability, bounds, hit-test and termination
// checks exactly as the producer's own engine would have (spec §4.6).
var (
	maxSpeedQ   = fixedpoint.FromInt(pongconfig.PaddleMaxSpeed)
	heightQ     = fixedpoint.FromInt(pongconfig.Height)
	ballRadiusQ = fixedpoint.FromInt(pongconfig.BallRadius)
)

func replay(gameID uint32, events []int64) Result {
	yMinQ, yMaxQ := pongengine.YBounds()
	half := pongengine.Half()

	var leftScore, rightScore uint32
	serveTo := pongengine.Side(pongconfig.InitialServeDirection)

	pairs := len(events) / 2
	s := pongengine.Serve(0, gameID, serveTo)

	for i := 0; i < pairs; i++ {
		dt, err := pongengine.TimeToPaddle(s)
		if err != nil || dt <= 0 {
			return reject("Invalid kinematics at event %d: %v", i, err)
		}
		tHit := s.T0 + dt
		yAtHit := fixedpoint.Reflect1D(s.Y, s.VY, dt, yMinQ, yMaxQ)

		loggedL := fixedpoint.Q(events[2*i])
		loggedR := fixedpoint.Q(events[2*i+1])

		limit := fixedpoint.Mul(maxSpeedQ, dt)
		if delta := fixedpoint.Abs(loggedL - s.LeftY); delta > limit {
			return reject("Paddle moved too fast: left delta=%d limit=%d at event %d", delta, limit, i)
		}
		if delta := fixedpoint.Abs(loggedR - s.RightY); delta > limit {
			return reject("Paddle moved too fast: right delta=%d limit=%d at event %d", delta, limit, i)
		}

		if fixedpoint.ClampPaddleY(loggedL, half, heightQ) != loggedL {
			return reject("Paddle out of bounds: left=%d at event %d", loggedL, i)
		}
		if fixedpoint.ClampPaddleY(loggedR, half, heightQ) != loggedR {
			return reject("Paddle out of bounds: right=%d at event %d", loggedR, i)
		}

		receiverY := loggedR
		if s.Dir == pongengine.Left {
			receiverY = loggedL
		}
		hit := fixedpoint.Abs(receiverY-yAtHit) <= half+ballRadiusQ

		if !hit {
			if s.Dir == pongengine.Left {
				rightScore++
			} else {
				leftScore++
			}
			if leftScore >= pongconfig.PointsToWin || rightScore >= pongconfig.PointsToWin {
				if i != pairs-1 {
					return reject("Invalid final score: match ended before all events were consumed")
				}
				break
			}
			nextServe := pongengine.Right
			if s.Dir == pongengine.Right {
				nextServe = pongengine.Left
			}
			s = pongengine.Serve(2*(i+1), gameID, nextServe)
			continue
		}

		vx, vy, speed, dir, err := pongengine.Bounce(yAtHit, receiverY, s.Speed, s.Dir)
		if err != nil {
			return reject("Invalid kinematics at event %d: %v", i, err)
		}
		s = pongengine.FixState{
			T0: tHit, X: pongengine.ContactX(s.Dir), Y: yAtHit,
			VX: vx, VY: vy, Speed: speed,
			LeftY: loggedL, RightY: loggedR,
			Dir: dir,
		}
	}

	if leftScore != pongconfig.PointsToWin && rightScore != pongconfig.PointsToWin {
		return reject("Invalid final score: neither side reached %d", pongconfig.PointsToWin)
	}
	if leftScore > pongconfig.PointsToWin || rightScore > pongconfig.PointsToWin {
		return reject("Invalid final score: a side exceeded %d", pongconfig.PointsToWin)
	}
	if leftScore == rightScore {
		return reject("Invalid final score: tied at %d-%d", leftScore, rightScore)
	}

	return Result{
		Fair:       true,
		LeftScore:  leftScore,
		RightScore: rightScore,
		EventsLen:  uint32(len(events)),
	}
}
