package fixedpoint

import "testing"

func TestReflect1D(t *testing.T) {
	cases := []struct {
		name           string
		y0, vy, dt     Q
		minY, maxY     Q
		want           Q
	}{
		{"mid-board, no bounce", FromInt(100), FromInt(50), FromInt(2), FromInt(0), FromInt(480), FromInt(200)},
		{"top reflection", FromInt(10), FromInt(-50), FromInt(1), FromInt(0), FromInt(480), FromInt(40)},
		{"bottom reflection", FromInt(470), FromInt(50), FromInt(1), FromInt(0), FromInt(480), FromInt(440)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Reflect1D(c.y0, c.vy, c.dt, c.minY, c.maxY)
			if got != c.want {
				t.Errorf("Reflect1D(%d,%d,%d,%d,%d) = %d, want %d", c.y0, c.vy, c.dt, c.minY, c.maxY, got, c.want)
			}
		})
	}
}

func TestReflect1DDegenerateSpan(t *testing.T) {
	if got := Reflect1D(FromInt(5), FromInt(10), FromInt(1), FromInt(3), FromInt(3)); got != FromInt(5) {
		t.Errorf("expected y0 unchanged when span <= 0, got %d", got)
	}
}

func TestEmodNeverNegative(t *testing.T) {
	// A large negative velocity times dt must still land in [minY, maxY].
	got := Reflect1D(FromInt(0), FromInt(-1000), FromInt(10), FromInt(0), FromInt(480))
	if got < FromInt(0) || got > FromInt(480) {
		t.Errorf("Reflect1D produced out-of-range position %d", got)
	}
}

func TestClampPaddleY(t *testing.T) {
	half := FromInt(40)
	height := FromInt(480)
	if got := ClampPaddleY(FromInt(10), half, height); got != half {
		t.Errorf("expected clamp to half at top, got %d", got)
	}
	if got := ClampPaddleY(FromInt(470), half, height); got != height-half {
		t.Errorf("expected clamp to height-half at bottom, got %d", got)
	}
	if got := ClampPaddleY(FromInt(240), half, height); got != FromInt(240) {
		t.Errorf("expected untouched mid-board value, got %d", got)
	}
}

func TestMulDivRoundTrip(t *testing.T) {
	a := FromInt(123)
	b := FromInt(7)
	prod := Mul(a, b)
	if prod != FromInt(861) {
		t.Errorf("Mul(123,7) = %d, want %d", prod, FromInt(861))
	}
	if got := Div(prod, b); got != a {
		t.Errorf("Div(Mul(a,b),b) = %d, want %d", got, a)
	}
}

func TestAbsMinMax(t *testing.T) {
	if Abs(FromInt(-5)) != FromInt(5) {
		t.Error("Abs(-5) != 5")
	}
	if Min(FromInt(3), FromInt(9)) != FromInt(3) {
		t.Error("Min broken")
	}
	if Max(FromInt(3), FromInt(9)) != FromInt(9) {
		t.Error("Max broken")
	}
}
