// Package fixedpoint implements Q16.16 fixed-point arithmetic over int64,
// widening multiplication and division through math/big so products never
// clip before the shift. Every value on the validated physics path lives
// here; nothing in this package ever touches float64.
package fixedpoint

import "math/big"

// Q is a Q16.16 fixed-point scalar: a signed integer scaled by 2^16.
type Q int64

const fracBits = 16

// One is 1.0 in Q16.16.
const One Q = 1 << fracBits

// FromInt converts a whole pixel/speed count to Q16.16.
func FromInt(n int64) Q { return Q(n << fracBits) }

// Add returns a+b.
func Add(a, b Q) Q { return a + b }

// Sub returns a-b.
func Sub(a, b Q) Q { return a - b }

// Mul multiplies two Q16.16 values, widening the intermediate product to
// 128 bits via math/big so the shift never loses the top of the product.
func Mul(a, b Q) Q {
	prod := new(big.Int).Mul(big.NewInt(int64(a)), big.NewInt(int64(b)))
	prod.Rsh(prod, fracBits)
	return Q(prod.Int64())
}

// Div divides a by b in Q16.16, widening the dividend before the native
// signed division. Panics if b == 0 — callers must check vx/limit first,
// per the engine's fatal-condition contract.
func Div(a, b Q) Q {
	if b == 0 {
		panic("fixedpoint: division by zero")
	}
	num := new(big.Int).Lsh(big.NewInt(int64(a)), fracBits)
	den := big.NewInt(int64(b))
	num.Quo(num, den)
	return Q(num.Int64())
}

// Abs returns the absolute value of a.
func Abs(a Q) Q {
	if a < 0 {
		return -a
	}
	return a
}

// Min returns the smaller of a, b.
func Min(a, b Q) Q {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a, b.
func Max(a, b Q) Q {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi Q) Q { return Max(lo, Min(hi, v)) }

// emod is the Euclidean modulo: the result is always in [0, n) regardless
// of the sign of a. Go's native % can return a negative remainder for a
// negative dividend, which reflect1D's wall-bounce math cannot tolerate.
func emod(a, n Q) Q {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Reflect1D returns the analytic position of a point starting at y0 with
// velocity vy after elapsed time dt, bouncing elastically off both walls
// of [minY, maxY]. It replaces any per-bounce simulation loop with a
// single closed-form Euclidean-modulo computation.
func Reflect1D(y0, vy, dt, minY, maxY Q) Q {
	span := maxY - minY
	if span <= 0 {
		return y0
	}
	period := span * 2
	y := emod(y0+Mul(vy, dt)-minY, period)
	if y > span {
		return maxY - (y - span)
	}
	return minY + y
}

// ClampPaddleY restricts a paddle's center Y to the board, leaving half
// the paddle height of margin at each wall.
func ClampPaddleY(y, half, height Q) Q {
	return Clamp(y, half, height-half)
}
