package pdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/evrhartsuiker/pdbtok/seq"
)

// atomLine renders a fixed column ATOM record the way the PDB format
// specifies: serial in columns 7-11, atom name in 13-16, alternate
// location in 17, residue name in 18-20, chain in 22, residue sequence
// number in 23-26, insertion code in 27 and coordinates in 31-54.
func atomLine(serial int, name string, alt byte, res string, chain byte,
	seqNum int, x, y, z float64) string {

	return fmt.Sprintf("ATOM  %5d %-4s%c%3s %c%4d    %8.3f%8.3f%8.3f  1.00  0.00",
		serial, " "+name, alt, res, chain, seqNum, x, y, z)
}

func residueLines(serial *int, res string, chain byte, seqNum int,
	offset float64, skip string) []string {

	lines := make([]string, 0, 3)
	for i, name := range []string{"N", "CA", "C"} {
		if name == skip {
			continue
		}
		*serial++
		lines = append(lines, atomLine(*serial, name, ' ', res, chain,
			seqNum, offset+float64(i), 0.5*float64(i), 1.0))
	}
	return lines
}

func testEntry(t *testing.T) *Entry {
	serial := 0
	lines := []string{
		fmt.Sprintf("HEADER    %-40s%-12s%4s", "HYDROLASE", "22-JAN-98", "1ABC"),
	}
	lines = append(lines, residueLines(&serial, "ALA", 'A', 1, 0, "")...)
	lines = append(lines, residueLines(&serial, "GLY", 'A', 2, 4, "")...)
	// Residue 3 is missing its CA atom and must be dropped.
	lines = append(lines, residueLines(&serial, "PRO", 'A', 3, 8, "CA")...)
	lines = append(lines, residueLines(&serial, "SER", 'A', 4, 12, "")...)
	// An alternate location other than A is ignored outright.
	lines = append(lines, atomLine(serial+100, "CA", 'B', "SER", 'A', 4, 99, 99, 99))
	lines = append(lines, fmt.Sprintf("TER   %5d      %3s %c%4d",
		serial+1, "SER", 'A', 4))
	// Waters and other heteroatoms are not residues.
	lines = append(lines,
		"HETATM  900  O   HOH A 501      10.000  10.000  10.000  1.00  0.00")
	lines = append(lines, residueLines(&serial, "VAL", 'B', 1, 0, "")...)
	// MSE is not one of the 20 standard amino acids; its residue is kept
	// but its name normalizes to the unknown residue.
	lines = append(lines, residueLines(&serial, "MSE", 'B', 2, 4, "")...)

	entry, err := Read(strings.NewReader(strings.Join(lines, "\n")), "pdb1abc.ent")
	if err != nil {
		t.Fatalf("%s", err)
	}
	return entry
}

func TestReadChains(t *testing.T) {
	entry := testEntry(t)
	if len(entry.Chains) != 2 {
		t.Fatalf("Expected 2 chains but got %d.", len(entry.Chains))
	}
	if entry.IdCode != "1ABC" {
		t.Fatalf("Expected id code '1ABC' but got '%s'.", entry.IdCode)
	}

	chainA := entry.Chain('A')
	if chainA == nil {
		t.Fatal("Chain A was not read.")
	}
	if got := string(residueLetters(chainA)); got != "AGS" {
		t.Fatalf("Chain A should have sequence 'AGS' but has '%s'.", got)
	}
	chainB := entry.Chain('B')
	if got := string(residueLetters(chainB)); got != "VX" {
		t.Fatalf("Chain B should have sequence 'VX' but has '%s'.", got)
	}
}

func TestReadDropsIncompleteResidues(t *testing.T) {
	entry := testEntry(t)
	if entry.Dropped != 1 {
		t.Fatalf("Expected exactly 1 dropped residue but got %d.",
			entry.Dropped)
	}
	for _, r := range entry.Chain('A').Residues {
		if r.ResName == "PRO" {
			t.Fatal("The incomplete PRO residue was not dropped.")
		}
	}
}

func TestReadCoordinates(t *testing.T) {
	entry := testEntry(t)
	first := entry.Chain('A').Residues[0]
	if first.N.X != 0 || first.Ca.X != 1 || first.C.X != 2 {
		t.Fatalf("Backbone atoms of the first residue are misassigned: "+
			"N=%s CA=%s C=%s.", first.N, first.Ca, first.C)
	}
	if first.Ca.Y != 0.5 || first.C.Y != 1.0 {
		t.Fatalf("Coordinate columns were misparsed: CA=%s C=%s.",
			first.Ca, first.C)
	}

	// The ignored altloc B record must not have overwritten SER's CA.
	ser := entry.Chain('A').Residues[2]
	if ser.Ca.X == 99 {
		t.Fatal("An alternate location B record overwrote a coordinate.")
	}
}

func TestReadGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("this is not\na PDB file\n"), "garbage")
	if err == nil {
		t.Fatal("Reading garbage text should fail, but it did not.")
	}
}

func TestReadEmptyChainsExcluded(t *testing.T) {
	// A file whose only ATOM records are incomplete residues has no usable
	// chain and must fail as a whole.
	serial := 0
	lines := residueLines(&serial, "ALA", 'A', 1, 0, "CA")
	_, err := Read(strings.NewReader(strings.Join(lines, "\n")), "partial")
	if err == nil {
		t.Fatal("An entry with no complete residue should fail, but did not.")
	}
}

func TestBackboneSlices(t *testing.T) {
	entry := testEntry(t)
	chain := entry.Chain('A')
	n, ca, c := chain.Backbone()
	if len(n) != len(chain.Residues) || len(ca) != len(n) || len(c) != len(n) {
		t.Fatalf("Backbone slices must be parallel to the residues: "+
			"%d residues but %d/%d/%d atoms.",
			len(chain.Residues), len(n), len(ca), len(c))
	}
	for i, r := range chain.Residues {
		if n[i] != r.N || ca[i] != r.Ca || c[i] != r.C {
			t.Fatalf("Backbone atom %d does not match its residue.", i)
		}
	}
}

func residueLetters(c *Chain) []byte {
	letters := make([]byte, len(c.Residues))
	for i, r := range c.Sequence() {
		letters[i] = byte(r)
	}
	return letters
}

func TestOneLetterNormalization(t *testing.T) {
	if seq.OneLetter("MSE") != seq.Unknown {
		t.Fatal("MSE should normalize to the unknown residue.")
	}
	if seq.OneLetter("ALA") != 'A' {
		t.Fatal("ALA should map to 'A'.")
	}
}
