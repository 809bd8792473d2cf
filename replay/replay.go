// Package replay drives a completed CompactLog back through the engine
// at wall-clock pace for local playback or spectating (spec §4.9). It
// never mutates the log and must reach the exact scores validator.ValidateLog
// would report for the same log.
package replay

import (
	"context"
	"time"

	"github.com/pongfair/pongcore/fixedpoint"
	"github.com/pongfair/pongcore/pongconfig"
	"github.com/pongfair/pongcore/pongengine"
	"github.com/pongfair/pongcore/wire"
)

// Frame is one paddle-plane event rendered for a playback consumer.
type Frame struct {
	Index      int
	LeftY      fixedpoint.Q
	RightY     fixedpoint.Q
	LeftScore  uint32
	RightScore uint32
	Hit        bool
}

// Driver steps a decoded log's events through the engine one paddle-plane
// crossing at a time, in real time, without re-validating seeds or
// commitments — callers that need a fairness judgement should run
// validator.ValidateLog first.
type Driver struct {
	gameID uint32
	events []int64
	speed  float64
}

// NewDriver builds a Driver over log's events at 1x wall-clock speed.
func NewDriver(log wire.CompactLog) (*Driver, error) {
	events, err := wire.DecodeEvents(log.Events)
	if err != nil {
		return nil, err
	}
	return &Driver{gameID: log.GameID, events: events, speed: 1.0}, nil
}

// SetSpeed scales wall-clock pacing; 2.0 plays twice as fast, 0 disables
// pacing entirely (frames are emitted as fast as the consumer drains them).
func (d *Driver) SetSpeed(speed float64) { d.speed = speed }

// Run emits one Frame per paddle-plane event via emit, sleeping between
// events to approximate the original's wall-clock cadence. It returns
// ctx.Err() if the context is cancelled mid-playback, and the final
// scores otherwise.
func (d *Driver) Run(ctx context.Context, emit func(Frame)) (leftScore, rightScore uint32, err error) {
	if len(d.events) == 0 || len(d.events)%2 != 0 {
		return 0, 0, nil
	}

	serveTo := pongengine.Side(pongconfig.InitialServeDirection)
	s := pongengine.Serve(0, d.gameID, serveTo)
	pairs := len(d.events) / 2

	var wallClock time.Duration

	for i := 0; i < pairs; i++ {
		dt, terr := pongengine.TimeToPaddle(s)
		if terr != nil {
			return leftScore, rightScore, terr
		}
		yAtHit := pongengine.BallYAtEvent(s, dt)

		loggedL := fixedpoint.Q(d.events[2*i])
		loggedR := fixedpoint.Q(d.events[2*i+1])

		receiverY := loggedR
		if s.Dir == pongengine.Left {
			receiverY = loggedL
		}
		hit := pongengine.Hit(receiverY, yAtHit)

		if d.speed > 0 {
			seconds := float64(dt) / float64(fixedpoint.One) / d.speed
			wallClock = time.Duration(seconds * float64(time.Second))
			select {
			case <-ctx.Done():
				return leftScore, rightScore, ctx.Err()
			case <-time.After(wallClock):
			}
		} else if err := ctx.Err(); err != nil {
			return leftScore, rightScore, err
		}

		if !hit {
			if s.Dir == pongengine.Left {
				rightScore++
			} else {
				leftScore++
			}
		}

		emit(Frame{
			Index: i, LeftY: loggedL, RightY: loggedR,
			LeftScore: leftScore, RightScore: rightScore, Hit: hit,
		})

		if leftScore >= pongconfig.PointsToWin || rightScore >= pongconfig.PointsToWin {
			break
		}

		if !hit {
			nextServe := pongengine.Right
			if s.Dir == pongengine.Right {
				nextServe = pongengine.Left
			}
			s = pongengine.Serve(2*(i+1), d.gameID, nextServe)
			continue
		}

		vx, vy, speed, dir, berr := pongengine.Bounce(yAtHit, receiverY, s.Speed, s.Dir)
		if berr != nil {
			return leftScore, rightScore, berr
		}
		s = pongengine.FixState{
			T0: s.T0 + dt, X: pongengine.ContactX(s.Dir), Y: yAtHit,
			VX: vx, VY: vy, Speed: speed,
			LeftY: loggedL, RightY: loggedR,
			Dir: dir,
		}
	}

	return leftScore, rightScore, nil
}
