// Package vec3 provides the 3-D geometry primitives used throughout rsmd:
// plain vectors, minimum-image periodic boundary distances, and the
// "make whole" repair applied to molecules that straddle a periodic image.
package vec3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a point or displacement in 3-D space.
type Vec = r3.Vec

// Error is returned by vec3 functions that can fail, e.g. on a non-positive
// box dimension.
type Error struct {
	message string
}

func (e Error) Error() string { return "vec3: " + e.message }

// newError is the only constructor; message stays unexported so callers
// match on Error, not on string content.
func newError(format string, args ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, args...)}
}

// CheckBox validates that every component of a box is positive. L_i <= 0 is
// fatal per the geometry invariants.
func CheckBox(box Vec) error {
	if box.X <= 0 || box.Y <= 0 || box.Z <= 0 {
		return newError("box dimensions must be positive, got (%g, %g, %g)", box.X, box.Y, box.Z)
	}
	return nil
}

// Frac reduces x/l to the interval [0, 1) via repeated floor subtraction,
// which (unlike a single math.Mod) behaves correctly for negative x.
func Frac(x, l float64) float64 {
	f := x/l - math.Floor(x/l)
	// guard against floating point edge cases landing exactly on 1.0
	if f >= 1 {
		f -= 1
	}
	return f
}

// MinimumImageDelta returns a-b reduced under the minimum-image convention:
// d_i = (a_i - b_i) - round((a_i-b_i)/L_i)*L_i
func MinimumImageDelta(a, b, box Vec) Vec {
	d := r3.Sub(a, b)
	return Vec{
		X: d.X - box.X*math.Round(d.X/box.X),
		Y: d.Y - box.Y*math.Round(d.Y/box.Y),
		Z: d.Z - box.Z*math.Round(d.Z/box.Z),
	}
}

// Distance is the minimum-image Euclidean distance between a and b.
func Distance(a, b, box Vec) float64 {
	return r3.Norm(MinimumImageDelta(a, b, box))
}

// Angle returns the angle in degrees between three points p1-p2-p3, using
// minimum-image vectors p1->p2 and p2->p3.
func Angle(p1, p2, p3, box Vec) float64 {
	v1 := MinimumImageDelta(p2, p1, box)
	v2 := MinimumImageDelta(p3, p2, box)
	return angleBetween(v1, v2)
}

func angleBetween(v1, v2 Vec) float64 {
	cos := r3.Dot(v1, v2) / (r3.Norm(v1) * r3.Norm(v2))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// Dihedral returns the dihedral angle in degrees defined by four points
// p1-p2-p3-p4, using minimum-image vectors between consecutive points.
// https://en.wikipedia.org/wiki/Dihedral_angle
func Dihedral(p1, p2, p3, p4, box Vec) float64 {
	b1 := MinimumImageDelta(p2, p1, box)
	b2 := MinimumImageDelta(p3, p2, box)
	b3 := MinimumImageDelta(p4, p3, box)

	n1 := normalOrZero(b1, b2)
	n2 := normalOrZero(b2, b3)

	m := r3.Cross(n1, n2)
	x := r3.Dot(m, r3.Scale(1/r3.Norm(b2), b2))
	y := r3.Dot(n1, n2)

	return math.Atan2(x, y) * 180 / math.Pi
}

func normalOrZero(v1, v2 Vec) Vec {
	n := r3.Cross(v1, v2)
	norm := r3.Norm(n)
	if norm == 0 {
		return Vec{}
	}
	return r3.Scale(1/norm, n)
}

// MakeWhole brings every position within half a box-length of positions[0]
// along each axis, subtracting trunc(delta_i / (0.5*L_i)) * L_i. This is the
// repair applied to a freshly assembled product whose atoms may have
// inherited coordinates from across a periodic wrap. It is idempotent:
// applying it twice yields the same result as applying it once.
func MakeWhole(positions []Vec, box Vec) []Vec {
	if len(positions) == 0 {
		return positions
	}
	ref := positions[0]
	out := make([]Vec, len(positions))
	for i, p := range positions {
		d := r3.Sub(p, ref)
		out[i] = Vec{
			X: p.X - float64(trunc(d.X/(0.5*box.X)))*box.X,
			Y: p.Y - float64(trunc(d.Y/(0.5*box.Y)))*box.Y,
			Z: p.Z - float64(trunc(d.Z/(0.5*box.Z)))*box.Z,
		}
	}
	return out
}

func trunc(x float64) int64 {
	return int64(x)
}
