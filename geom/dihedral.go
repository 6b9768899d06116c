package geom

import (
	"fmt"
	"math"
)

// A Pair holds the two backbone torsion angles of a single residue, in
// degrees. Either angle may be NaN when the torsion is undefined (chain
// termini, or degenerate coordinates).
type Pair struct {
	Phi, Psi float64
}

// Valid returns true when both angles of the pair are defined.
func (p Pair) Valid() bool {
	return !math.IsNaN(p.Phi) && !math.IsNaN(p.Psi)
}

func (p Pair) String() string {
	return fmt.Sprintf("(%0.2f, %0.2f)", p.Phi, p.Psi)
}

// Dihedrals computes the phi/psi pair for every residue of a protein
// backbone, given as parallel slices of N, CA and C atom coordinates in
// residue order. The returned slice has exactly one entry per residue, so
// that index i in the result refers to the same residue as index i in the
// input.
//
// phi(i) is the torsion C(i-1), N(i), CA(i), C(i) and psi(i) is the torsion
// N(i), CA(i), C(i), N(i+1). The first residue has no previous C atom and
// the last has no next N atom, so their pairs are always NaN. In particular,
// a backbone of fewer than three residues yields no valid pair at all.
//
// Dihedrals panics if the three slices are not of equal length.
func Dihedrals(n, ca, c []Coords) []Pair {
	if len(n) != len(ca) || len(ca) != len(c) {
		panic(fmt.Sprintf("Computing backbone dihedrals requires parallel "+
			"N, CA and C slices, but the lengths given are %d, %d and %d.",
			len(n), len(ca), len(c)))
	}

	pairs := make([]Pair, len(n))
	for i := range pairs {
		pairs[i] = Pair{math.NaN(), math.NaN()}
	}
	for i := 1; i < len(n)-1; i++ {
		pairs[i] = Pair{
			Phi: Dihedral(c[i-1], n[i], ca[i], c[i]),
			Psi: Dihedral(n[i], ca[i], c[i], n[i+1]),
		}
	}
	return pairs
}
