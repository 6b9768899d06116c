package sentence

import (
	"fmt"
	"math"

	"github.com/evrhartsuiker/pdbtok/geom"
)

// A Binner discretizes torsion angles into a fixed number of circular bins
// of equal width. The bin domain wraps at the +180/-180 boundary, so angles
// approaching the boundary from either side land in cyclically adjacent
// bins rather than maximally distant ones.
type Binner struct {
	width  int
	bins   int
	digits int
}

// NewBinner creates a Binner with the given bin width in degrees. NewBinner
// panics if the width does not evenly divide 360; a bin set with a ragged
// final bin would not be total over the circular domain.
func NewBinner(width int) Binner {
	if width <= 0 || 360%width != 0 {
		panic(fmt.Sprintf("A bin width must evenly divide 360 degrees, "+
			"but %d does not.", width))
	}
	bins := 360 / width
	return Binner{
		width:  width,
		bins:   bins,
		digits: len(fmt.Sprintf("%d", bins-1)),
	}
}

// Width returns the bin width in degrees.
func (b Binner) Width() int {
	return b.width
}

// Bins returns the total number of bins.
func (b Binner) Bins() int {
	return b.bins
}

// Bin maps a single finite angle in degrees to its bin index in
// [0, Bins()). The mapping is total and deterministic: every finite angle
// has exactly one bin, and +180 and -180 share bin 0.
func (b Binner) Bin(angle float64) int {
	return int(math.Floor((angle+180)/float64(b.width))) % b.bins
}

// Token composes the angle token for a valid phi/psi pair. The label is a
// fixed width decimal encoding of the phi bin followed by the psi bin, so
// the same pair always yields the same token.
//
// Token panics if the pair is not valid; callers must exclude NaN pairs
// before tokenizing.
func (b Binner) Token(p geom.Pair) string {
	if !p.Valid() {
		panic(fmt.Sprintf("Cannot tokenize the undefined angle pair %s.", p))
	}
	return fmt.Sprintf("%0*d%0*d", b.digits, b.Bin(p.Phi), b.digits, b.Bin(p.Psi))
}
