package sentence

import (
	"strings"

	"github.com/evrhartsuiker/pdbtok/geom"
	"github.com/evrhartsuiker/pdbtok/pdb"
	"github.com/evrhartsuiker/pdbtok/seq"
)

// A Pair is one training example: an amino acid sentence and a torsion
// angle sentence of equal length, where position k of both sequences
// describes the conformational context originating at the same residue.
type Pair struct {
	// AA holds the amino acid bigram tokens. Token k is formed from the one
	// letter codes of residues k+1 and k+2 of the source chain (interior
	// residues paired with their successors).
	AA []string

	// Angles holds the discretized phi/psi tokens, one per interior residue
	// with a defined angle pair.
	Angles []string
}

// Stats aggregates the recovered conditions encountered while turning
// chains into sentence pairs. None of these abort processing; they are
// reported at the end of a run.
type Stats struct {
	// ResiduesDropped counts residues discarded during parsing because
	// their backbone was incomplete.
	ResiduesDropped int

	// ChainsSkipped counts chains that yielded no example, either because
	// they were shorter than the configured minimum or because no position
	// had a defined angle pair.
	ChainsSkipped int

	// PositionsExcluded counts interior residues left out of both
	// sentences because their torsion angles were undefined.
	PositionsExcluded int
}

// Add accumulates another Stats value into s.
func (s *Stats) Add(o Stats) {
	s.ResiduesDropped += o.ResiduesDropped
	s.ChainsSkipped += o.ChainsSkipped
	s.PositionsExcluded += o.PositionsExcluded
}

// A Builder turns protein chains into aligned sentence pairs. The zero
// value is not useful; use NewBuilder.
type Builder struct {
	binner   Binner
	minLen   int
	excluded map[string]bool
}

// NewBuilder creates a Builder that discretizes angles with the given
// binner, skips chains with fewer than minChainLength usable residues, and
// removes residues whose three letter code is in excluded before forming
// bigrams. minChainLength values below 3 are raised to 3, since shorter
// chains can never yield a dihedral pair.
func NewBuilder(binner Binner, minChainLength int, excluded []string) *Builder {
	if minChainLength < 3 {
		minChainLength = 3
	}
	set := make(map[string]bool, len(excluded))
	for _, code := range excluded {
		set[strings.ToUpper(code)] = true
	}
	return &Builder{
		binner:   binner,
		minLen:   minChainLength,
		excluded: set,
	}
}

// Chain builds the aligned sentence pair for a single chain. It returns
// false when the chain yields no example: too short after filtering, or no
// interior residue with a defined angle pair. Recovered conditions are
// accumulated into stats.
//
// The two sequences of the returned pair always have equal length, and
// position k in both refers to the same originating residue. Positions
// with undefined torsions are excluded from both sides, never padded.
func (b *Builder) Chain(chain *pdb.Chain, stats *Stats) (Pair, bool) {
	residues := b.filter(chain.Residues)
	if len(residues) < b.minLen {
		stats.ChainsSkipped++
		return Pair{}, false
	}

	n := make([]geom.Coords, len(residues))
	ca := make([]geom.Coords, len(residues))
	co := make([]geom.Coords, len(residues))
	for i, r := range residues {
		n[i], ca[i], co[i] = r.N, r.Ca, r.C
	}
	pairs := geom.Dihedrals(n, ca, co)

	sp := Pair{
		AA:     make([]string, 0, len(residues)-2),
		Angles: make([]string, 0, len(residues)-2),
	}
	for i := 1; i < len(residues)-1; i++ {
		if !pairs[i].Valid() {
			stats.PositionsExcluded++
			continue
		}
		sp.AA = append(sp.AA, bigram(residues[i].Name, residues[i+1].Name))
		sp.Angles = append(sp.Angles, b.binner.Token(pairs[i]))
	}

	if len(sp.AA) == 0 {
		stats.ChainsSkipped++
		return Pair{}, false
	}
	return sp, true
}

// Entry builds sentence pairs for every chain of a PDB entry and folds the
// entry's dropped residue count into stats. Chains that yield no example
// are simply absent from the result.
func (b *Builder) Entry(entry *pdb.Entry, stats *Stats) []Pair {
	stats.ResiduesDropped += entry.Dropped
	pairs := make([]Pair, 0, len(entry.Chains))
	for _, chain := range entry.Chains {
		if sp, ok := b.Chain(chain, stats); ok {
			pairs = append(pairs, sp)
		}
	}
	return pairs
}

// filter removes residues whose three letter code is excluded. The input
// slice is not modified.
func (b *Builder) filter(residues []pdb.Residue) []pdb.Residue {
	if len(b.excluded) == 0 {
		return residues
	}
	kept := make([]pdb.Residue, 0, len(residues))
	for _, r := range residues {
		if !b.excluded[r.ResName] {
			kept = append(kept, r)
		}
	}
	return kept
}

// bigram forms the amino acid token for two consecutive residues. Residues
// are already normalized to the standard alphabet (non-standard amino acids
// read as seq.Unknown), so the token space is bounded.
func bigram(a, b seq.Residue) string {
	return string([]byte{byte(a), byte(b)})
}
