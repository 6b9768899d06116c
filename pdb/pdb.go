package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/evrhartsuiker/pdbtok/geom"
	"github.com/evrhartsuiker/pdbtok/seq"
)

// Entry represents all information read from a particular PDB file (that
// has been implemented in this package).
//
// An Entry is a file path, an id code and a list of protein chains, along
// with a count of the residues that had to be discarded because their
// backbone was incomplete.
type Entry struct {
	Path   string
	IdCode string
	Chains []*Chain

	// Dropped counts the residues discarded across all chains because one
	// or more of their N, CA or C backbone atoms was missing.
	Dropped int
}

// Chain represents a protein chain or subunit in a PDB file. Each chain has
// its own identifier and an ordered list of residues with a complete
// backbone, in the order their ATOM records appeared in the file.
type Chain struct {
	Entry    *Entry
	Ident    byte
	Residues []Residue

	pending *pending
}

// Residue is a single amino acid with its three backbone atom coordinates.
// A Residue never appears in a Chain with a partial backbone; residues
// missing any of N, CA or C are dropped during parsing and counted in
// the entry's Dropped field.
type Residue struct {
	// Name is the one letter representation of the amino acid. Non-standard
	// amino acids are normalized to seq.Unknown.
	Name seq.Residue

	// ResName is the three letter name as it appeared in the file.
	ResName string

	SeqNum int
	ICode  byte

	N, Ca, C geom.Coords
}

const (
	hasN = 1 << iota
	hasCa
	hasC
	hasAll = hasN | hasCa | hasC
)

// pending accumulates the backbone atoms of the residue currently being
// read for a chain. It is promoted to a Residue once all three atoms have
// been seen and a record for a different residue (or a TER record, or EOF)
// arrives.
type pending struct {
	resName string
	seqNum  int
	icode   byte
	n, ca, c geom.Coords
	seen    uint8
}

// New creates a new PDB Entry from a file. If the file cannot be read, or
// there is an error parsing the PDB file, an error is returned.
//
// If the file name ends with ".gz", gzip decompression will be used.
func New(fileName string) (*Entry, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fileName) == ".gz" {
		reader, err = gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
	}
	return Read(reader, fileName)
}

// Read parses PDB formatted text into an Entry. The path is only used to
// fill the entry's Path field and for error messages; no file I/O is
// performed.
//
// Only HEADER, ATOM and TER records are interpreted. ATOM records are read
// in file order, and the N, CA and C atoms of consecutive records with the
// same residue sequence number and insertion code are collected into a
// single residue. HETATM records and alternate locations other than 'A'
// are ignored. Individually malformed records are skipped; if no chain
// with at least one complete residue can be recovered from the whole text,
// an error is returned.
func Read(r io.Reader, path string) (*Entry, error) {
	entry := &Entry{
		Path:   path,
		Chains: make([]*Chain, 0, 1),
	}

	breader := bufio.NewReaderSize(r, 1000)
	for {
		// We ignore 'isPrefix' here, since we never care about lines longer
		// than 1000 characters, which is the size of our buffer.
		line, _, err := breader.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(line) < 6 {
			continue
		}

		// The record name is always in the first six columns.
		switch strings.TrimSpace(string(line[0:6])) {
		case "HEADER":
			entry.parseHeader(line)
		case "ATOM":
			entry.parseAtom(line)
		case "TER":
			if len(line) > 21 {
				if chain := entry.chain(line[21]); chain != nil {
					chain.flush()
				}
			}
		}
	}

	// Promote whatever residues were still being accumulated when the
	// file ended, then throw away chains that came up empty.
	chains := entry.Chains[:0]
	for _, chain := range entry.Chains {
		chain.flush()
		if len(chain.Residues) > 0 {
			chains = append(chains, chain)
		}
	}
	entry.Chains = chains

	if len(entry.Chains) == 0 {
		return nil, fmt.Errorf("The file '%s' does not appear to contain "+
			"any protein chains with backbone coordinates.", path)
	}

	// If we couldn't find an id code, inspect the base name of the file.
	if len(entry.IdCode) == 0 {
		entry.IdCode = idCodeFromPath(path)
	}
	return entry, nil
}

// Chain looks for the chain with identifier ident and returns it. 'nil' is
// returned if the chain could not be found.
func (e *Entry) Chain(ident byte) *Chain {
	return e.chain(ident)
}

// OneChain returns a single chain in the PDB file. If there is more than one
// chain, OneChain will panic. This is convenient when you expect a PDB file
// to have only a single chain, but don't know the name.
func (e *Entry) OneChain() *Chain {
	if len(e.Chains) != 1 {
		panic(fmt.Sprintf("OneChain can only be called on PDB entries with "+
			"ONE chain. But the '%s' PDB entry has %d chains.",
			e.Path, len(e.Chains)))
	}
	return e.Chains[0]
}

// Name returns the base name of the path of this PDB entry.
func (e *Entry) Name() string {
	return path.Base(e.Path)
}

// String returns a list of all chains and their amino acid sequences.
func (e *Entry) String() string {
	lines := make([]string, 0, len(e.Chains))
	for _, chain := range e.Chains {
		lines = append(lines, chain.String())
	}
	return strings.Join(lines, "\n")
}

func (e *Entry) chain(ident byte) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// getOrMakeChain looks for a chain in the 'Chains' slice corresponding to
// the chain identifier. If one exists, it is returned. If one doesn't
// exist, it is created, memory is allocated and it is returned.
func (e *Entry) getOrMakeChain(ident byte) *Chain {
	if ident == ' ' {
		ident = '_'
	}
	if chain := e.chain(ident); chain != nil {
		return chain
	}
	newChain := &Chain{
		Entry:    e,
		Ident:    ident,
		Residues: make([]Residue, 0, 30),
	}
	e.Chains = append(e.Chains, newChain)
	return newChain
}

// parseHeader loads the id code from the HEADER record. Anything else on
// the record is ignored.
func (e *Entry) parseHeader(line []byte) {
	if len(line) >= 66 && len(e.IdCode) == 0 {
		e.IdCode = strings.TrimSpace(string(line[62:66]))
	}
}

// parseAtom reads a single ATOM record. Only the N, CA and C atoms of
// amino acid residues matter here; every other atom only serves to mark
// the boundary of the residue currently being collected.
func (e *Entry) parseAtom(line []byte) {
	// An ATOM record is fixed format through at least the coordinate
	// fields, which end at column 54.
	if len(line) < 54 {
		return
	}

	// Ignore everything but the primary alternate location.
	if alt := line[16]; alt != ' ' && alt != 'A' {
		return
	}

	// The residue name is in columns 17-19. Amino acids always have three
	// letter names; records for waters and nucleic acids have shorter ones
	// and are skipped outright.
	resName := strings.TrimSpace(string(line[17:20]))
	if len(resName) != 3 {
		return
	}

	chain := e.getOrMakeChain(line[21])

	// The residue sequence number is in columns 22-25 and the insertion
	// code in column 26. Together they identify one residue within a chain.
	seqNum64, err := strconv.ParseInt(strings.TrimSpace(string(line[22:26])), 10, 32)
	if err != nil {
		return
	}
	seqNum, icode := int(seqNum64), line[26]

	// A record for a different residue ends the one being accumulated.
	if p := chain.pending; p != nil && (p.seqNum != seqNum || p.icode != icode) {
		chain.flush()
	}
	if chain.pending == nil {
		chain.pending = &pending{
			resName: resName,
			seqNum:  seqNum,
			icode:   icode,
		}
	}

	// The atom name is in columns 12-15.
	atomName := strings.TrimSpace(string(line[12:16]))
	switch atomName {
	case "N", "CA", "C":
	default:
		return
	}

	coords, ok := parseCoords(line)
	if !ok {
		return
	}

	p := chain.pending
	switch atomName {
	case "N":
		p.n, p.seen = coords, p.seen|hasN
	case "CA":
		p.ca, p.seen = coords, p.seen|hasCa
	case "C":
		p.c, p.seen = coords, p.seen|hasC
	}
}

// parseCoords reads the x, y and z coordinate fields from columns 30-53
// of an ATOM record.
func parseCoords(line []byte) (geom.Coords, bool) {
	x, xerr := strconv.ParseFloat(strings.TrimSpace(string(line[30:38])), 64)
	y, yerr := strconv.ParseFloat(strings.TrimSpace(string(line[38:46])), 64)
	z, zerr := strconv.ParseFloat(strings.TrimSpace(string(line[46:54])), 64)
	if xerr != nil || yerr != nil || zerr != nil {
		return geom.Coords{}, false
	}
	return geom.Coords{X: x, Y: y, Z: z}, true
}

// flush promotes the chain's pending residue, if there is one. A pending
// residue with an incomplete backbone is dropped and counted on the entry
// rather than added to the chain.
func (c *Chain) flush() {
	p := c.pending
	if p == nil {
		return
	}
	c.pending = nil

	if p.seen != hasAll {
		c.Entry.Dropped++
		return
	}
	c.Residues = append(c.Residues, Residue{
		Name:    seq.OneLetter(p.resName),
		ResName: p.resName,
		SeqNum:  p.seqNum,
		ICode:   p.icode,
		N:       p.n,
		Ca:      p.ca,
		C:       p.c,
	})
}

// Sequence returns the chain's amino acid sequence as one letter residues,
// in the order the residues appear in the chain.
func (c *Chain) Sequence() []seq.Residue {
	residues := make([]seq.Residue, len(c.Residues))
	for i, r := range c.Residues {
		residues[i] = r.Name
	}
	return residues
}

// Backbone returns the chain's backbone as parallel N, CA and C coordinate
// slices, suitable for geom.Dihedrals.
func (c *Chain) Backbone() (n, ca, co []geom.Coords) {
	n = make([]geom.Coords, len(c.Residues))
	ca = make([]geom.Coords, len(c.Residues))
	co = make([]geom.Coords, len(c.Residues))
	for i, r := range c.Residues {
		n[i], ca[i], co[i] = r.N, r.Ca, r.C
	}
	return n, ca, co
}

// String returns a FASTA-like formatted string of this chain and all of its
// related information.
func (c *Chain) String() string {
	residues := c.Sequence()
	letters := make([]byte, len(residues))
	for i, r := range residues {
		letters[i] = byte(r)
	}
	return fmt.Sprintf("> Chain %c :: length %d\n%s",
		c.Ident, len(c.Residues), letters)
}

// idCodeFromPath guesses a PDB id code from a file name like 'pdb2nmb.ent'
// or '2nmb.pdb'.
func idCodeFromPath(fpath string) string {
	name := path.Base(fpath)
	switch {
	case len(name) >= 7 && name[0:3] == "pdb":
		return name[3:7]
	case len(name) >= 4:
		return name[0:4]
	}
	return ""
}
