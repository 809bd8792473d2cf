package fixedpoint

// Pure-integer CORDIC trigonometry. The atan table and gain constant are
// hardcoded to 8 iterations — changing either breaks bit-for-bit agreement
// between producer, validator and the zk guest, so they are never derived
// from a floating-point library.

const cordicIterations = 8

// atanQ16 holds atan(2^-i) for i in [0, cordicIterations) in Q16.16.
var atanQ16 = [cordicIterations]Q{51472, 30386, 16055, 8150, 4091, 2047, 1024, 512}

// kQ16 is the CORDIC gain constant in Q16.16.
const kQ16 Q = 39797

// PIQ16 is pi in Q16.16, used for degree/radian conversion.
const PIQ16 Q = 205887

// DegToRad converts a whole-degree angle to Q16.16 radians using
// integer-only multiplication and division: rad = deg * PI_Q16 / 180.
func DegToRad(deg int32) Q {
	return Div(Mul(FromInt(int64(deg)), PIQ16), FromInt(180))
}

// SinCos computes sin and cos of a Q16.16 angle (in radians) via 8
// iterations of CORDIC rotation. Valid for |angle| <= 8*pi: the angle is
// first folded into [-pi/2, pi/2], where the iterations converge. Shifts
// truncate toward zero, so sin(-a) == -sin(a) exactly.
func SinCos(angle Q) (sin, cos Q) {
	// Fold into [-pi, pi), then use sin(pi-a) = sin(a), cos(pi-a) = -cos(a).
	angle = emod(angle+PIQ16, 2*PIQ16) - PIQ16
	flip := true
	switch {
	case angle > PIQ16/2:
		angle = PIQ16 - angle
	case angle < -PIQ16/2:
		angle = -PIQ16 - angle
	default:
		flip = false
	}
	x, y, z := kQ16, Q(0), angle
	for i := 0; i < cordicIterations; i++ {
		var d Q = 1
		if z < 0 {
			d = -1
		}
		xShift, yShift := x>>uint(i), y>>uint(i)
		if x < 0 {
			xShift = -((-x) >> uint(i))
		}
		if y < 0 {
			yShift = -((-y) >> uint(i))
		}
		x, y, z = x-d*yShift, y+d*xShift, z-d*atanQ16[i]
	}
	if flip {
		x = -x
	}
	return y, x
}
