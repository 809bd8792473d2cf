// Package pongengine is the event-driven kinematic core (spec §4.4):
// analytic between-event motion, reflective wall bouncing, paddle-plane
// event timing, hit/miss geometry and angled rebound. It performs no I/O
// and holds no package-level mutable state — every match owns its own
// FixState exclusively for its lifetime.
package pongengine

import (
	"errors"
	"fmt"

	"github.com/pongfair/pongcore/fixedpoint"
	"github.com/pongfair/pongcore/pongconfig"
)

// Q is a local alias so engine signatures read like the spec's notation.
type Q = fixedpoint.Q

// Side identifies which paddle the ball is traveling toward.
type Side int8

const (
	Left  Side = -1
	Right Side = 1
)

// FixState is the per-rally kinematic snapshot (spec §3): created at each
// serve, mutated only at paddle-plane events, discarded at terminal score.
type FixState struct {
	T0, X, Y, VX, VY, Speed Q
	LeftY, RightY           Q
	Dir                     Side
}

// PaddleMotion is a linear ramp toward a target at max speed, queried
// analytically for any t >= T0.
type PaddleMotion struct {
	Y0, T0, Target Q
}

// board-geometry constants derived once from pongconfig, all in Q16.16.
var (
	widthQ        = fixedpoint.FromInt(pongconfig.Width)
	heightQ       = fixedpoint.FromInt(pongconfig.Height)
	ballRadiusQ   = fixedpoint.FromInt(pongconfig.BallRadius)
	paddleHeightQ = fixedpoint.FromInt(pongconfig.PaddleHeight)
	paddleWidthQ  = fixedpoint.FromInt(pongconfig.PaddleWidth)
	paddleMarginQ = fixedpoint.FromInt(pongconfig.PaddleMargin)
	maxSpeedQ     = fixedpoint.FromInt(pongconfig.PaddleMaxSpeed)
	serveSpeedQ   = fixedpoint.FromInt(pongconfig.ServeSpeed)
	speedIncQ     = fixedpoint.FromInt(pongconfig.SpeedIncrement)
	maxBounceRad  = fixedpoint.DegToRad(pongconfig.MaxBounceAngleDeg)

	yMinQ    = ballRadiusQ
	yMaxQ    = heightQ - ballRadiusQ
	halfQ    = fixedpoint.Div(paddleHeightQ, fixedpoint.FromInt(2))
	padBallQ = halfQ + ballRadiusQ

	leftFaceQ  = paddleMarginQ + paddleWidthQ
	rightFaceQ = widthQ - (paddleMarginQ + paddleWidthQ)

	leftContactXQ  = leftFaceQ + ballRadiusQ
	rightContactXQ = rightFaceQ - ballRadiusQ
)

// Half returns half the paddle height in Q16.16, exported for callers
// (the validator) that need it for bounds checks.
func Half() Q { return halfQ }

// YBounds returns the ball's reflective travel bounds in Q16.16.
func YBounds() (minY, maxY Q) { return yMinQ, yMaxQ }

// emod32 is the Euclidean remainder of a signed 32-bit value mod n (n>0).
func emod32(a, n int32) int32 {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// ServeAngleDeg computes the deterministic serve angle, in whole degrees,
// for serve index k of the given game (spec §4.4).
func ServeAngleDeg(k int, gameID uint32) int32 {
	entropy := int32(k) + int32(gameID) // wraps on overflow like a 32-bit signed add
	product := int64(entropy) * int64(pongconfig.ServeAngleMultiplier)
	raw := emod32(int32(product%int64(pongconfig.AngleRange)), pongconfig.AngleRange)
	return raw - pongconfig.MaxBounceAngleDeg
}

// Serve builds the FixState for serve index k with the given receiver
// direction: ball centered, paddles centered, speed = ServeSpeed.
func Serve(k int, gameID uint32, receiverDir Side) FixState {
	angleDeg := ServeAngleDeg(k, gameID)
	angle := fixedpoint.DegToRad(angleDeg)
	sin, cos := fixedpoint.SinCos(angle)

	dirQ := fixedpoint.FromInt(int64(receiverDir))
	vx := fixedpoint.Mul(serveSpeedQ, fixedpoint.Mul(cos, dirQ))
	vy := fixedpoint.Mul(serveSpeedQ, sin)

	centerX := fixedpoint.Div(widthQ, fixedpoint.FromInt(2))
	centerY := fixedpoint.Div(heightQ, fixedpoint.FromInt(2))

	return FixState{
		T0: 0, X: centerX, Y: centerY,
		VX: vx, VY: vy, Speed: serveSpeedQ,
		LeftY: centerY, RightY: centerY,
		Dir: receiverDir,
	}
}

// ErrZeroVelocity signals vx == 0, a fatal kinematic condition.
var ErrZeroVelocity = errors.New("pongengine: vx is zero")

// ErrNonPositiveDt signals a paddle-plane crossing that is not strictly
// in the future.
var ErrNonPositiveDt = errors.New("pongengine: time to paddle plane is not positive")

// ContactX returns the paddle-plane X coordinate the ball reaches when
// heading toward dir.
func ContactX(dir Side) Q {
	if dir == Left {
		return leftContactXQ
	}
	return rightContactXQ
}

// TimeToPaddle returns the elapsed time until s's ball crosses the
// receiving paddle's plane. Fails fast on vx==0 or a non-positive dt —
// both indicate impossible physics the validator is expected to catch
// earlier with a cleaner rejection message.
func TimeToPaddle(s FixState) (Q, error) {
	if s.VX == 0 {
		return 0, ErrZeroVelocity
	}
	dt := fixedpoint.Div(ContactX(s.Dir)-s.X, s.VX)
	if dt <= 0 {
		return 0, ErrNonPositiveDt
	}
	return dt, nil
}

// BallYAtEvent returns the ball's Y position at the paddle plane, dt
// after s.T0.
func BallYAtEvent(s FixState, dt Q) Q {
	return fixedpoint.Reflect1D(s.Y, s.VY, dt, yMinQ, yMaxQ)
}

// PaddleYAt evaluates a linear paddle ramp at time t >= m.T0.
func PaddleYAt(m PaddleMotion, t Q) Q {
	delta := m.Target - m.Y0
	maxMove := fixedpoint.Mul(maxSpeedQ, t-m.T0)
	var moved Q
	if delta < 0 {
		moved = -fixedpoint.Min(-delta, maxMove)
	} else {
		moved = fixedpoint.Min(delta, maxMove)
	}
	return fixedpoint.ClampPaddleY(m.Y0+moved, halfQ, heightQ)
}

// aimMix is the 32-bit mixing hash used to derive the producer's
// deterministic aim perturbation from (eventIndex, gameID). It is not
// part of the validated contract (spec §4.4): only its determinism across
// producers sharing a game_id matters.
func aimMix(eventIndex int, gameID uint32) uint32 {
	h := uint32(int32(eventIndex))*1664525 + gameID + 1013904223
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	return h
}

// PlanReceiverTarget returns the receiver's next paddle target: the
// predicted intercept offset by a deterministic aim perturbation uniform
// on [-PaddleHeight/2, +PaddleHeight/2).
func PlanReceiverTarget(predictedY Q, eventIndex int, gameID uint32) Q {
	h := aimMix(eventIndex, gameID)
	offsetPixels := int32(h%pongconfig.PaddleHeight) - pongconfig.PaddleHeight/2
	offset := fixedpoint.FromInt(int64(offsetPixels))
	return fixedpoint.ClampPaddleY(predictedY+offset, halfQ, heightQ)
}

// PlanNonReceiverTarget returns the non-receiving side's target: board
// center.
func PlanNonReceiverTarget() Q {
	return fixedpoint.Div(heightQ, fixedpoint.FromInt(2))
}

// Hit reports whether the receiver's paddle, at paddleY, intercepts the
// ball at yAtHit.
func Hit(paddleY, yAtHit Q) bool {
	return fixedpoint.Abs(paddleY-yAtHit) <= padBallQ
}

// Bounce computes the post-impact velocity, speed and direction for a
// ball at ballY striking the receiver's paddle centered at paddleY. No
// jitter: angle and speed are pure functions of impact geometry and prior
// speed. ballY is the ball's Y at the paddle plane, never an earlier
// position — the rebound angle depends on where on the paddle face the
// ball lands.
func Bounce(ballY, paddleY, prevSpeed Q, prevDir Side) (vx, vy, speed Q, dir Side, err error) {
	limit := padBallQ
	if limit <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("pongengine: non-positive bounce limit %d", limit)
	}

	offset := fixedpoint.Clamp(ballY-paddleY, -limit, limit)
	norm := fixedpoint.Div(offset, limit)
	angle := fixedpoint.Clamp(fixedpoint.Mul(norm, maxBounceRad), -maxBounceRad, maxBounceRad)

	newSpeed := prevSpeed + speedIncQ
	newDir := Left
	if prevDir == Left {
		newDir = Right
	}

	sin, cos := fixedpoint.SinCos(angle)
	dirQ := fixedpoint.FromInt(int64(newDir))
	vx = fixedpoint.Mul(newSpeed, fixedpoint.Mul(cos, dirQ))
	vy = fixedpoint.Mul(newSpeed, sin)
	return vx, vy, newSpeed, newDir, nil
}
