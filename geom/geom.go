package geom

import (
	"fmt"
	"math"
)

// Coords is a point in three dimensional space.
type Coords struct {
	X, Y, Z float64
}

func (c Coords) String() string {
	return fmt.Sprintf("%0.3f %0.3f %0.3f", c.X, c.Y, c.Z)
}

func sub(a, b Coords) Coords {
	return Coords{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func cross(a, b Coords) Coords {
	return Coords{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func dot(a, b Coords) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func norm(a Coords) float64 {
	return math.Sqrt(dot(a, a))
}

// Dihedral computes the signed torsion angle defined by the four points
// a, b, c and d, in degrees in the interval [-180, 180). The sign follows
// the standard biochemical convention for phi/psi angles: looking down the
// b->c bond, a positive angle is a clockwise rotation of the c->d bond
// relative to the a->b bond.
//
// If the three bond vectors are degenerate (two coincident points or three
// collinear points), there is no defined torsion and NaN is returned.
func Dihedral(a, b, c, d Coords) float64 {
	b1 := sub(b, a)
	b2 := sub(c, b)
	b3 := sub(d, c)

	n1 := cross(b1, b2)
	n2 := cross(b2, b3)
	if dot(n1, n1) == 0 || dot(n2, n2) == 0 {
		return math.NaN()
	}

	b2len := norm(b2)
	y := dot(cross(n1, n2), Coords{b2.X / b2len, b2.Y / b2len, b2.Z / b2len})
	x := dot(n1, n2)

	deg := math.Atan2(y, x) * 180 / math.Pi
	if deg >= 180 {
		deg -= 360
	}
	return deg
}
