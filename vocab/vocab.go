// Package vocab maintains append-only mappings between token strings
// and stable integer ids.
//
// A Vocab is explicit pipeline state: it is created (or loaded) once at
// the start of a run, handed to whatever code interns tokens, and written
// out at the end. A pipeline that tokenizes two languages owns two
// independent Vocab values. Interning is not safe for concurrent use;
// deterministic id assignment requires that tokens arrive in a single
// well-defined order anyway, so interning belongs on one goroutine.
package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Reserved special tokens. They occupy the first four ids of every
// vocabulary, in this order.
const (
	Pad   = "<PAD>"
	Start = "<START>"
	End   = "<END>"
	Unk   = "<UNK>"
)

// Ids of the reserved tokens.
const (
	PadId = iota
	StartId
	EndId
	UnkId
)

var reserved = []string{Pad, Start, End, Unk}

// A Vocab is a bidirectional mapping between token strings and ids.
// Ids are assigned in first-seen order, starting directly after the
// reserved tokens, and once assigned never change.
type Vocab struct {
	tokenToId map[string]int
	idToToken []string
}

// New creates an empty vocabulary holding only the reserved tokens.
func New() *Vocab {
	v := &Vocab{
		tokenToId: make(map[string]int, 512),
		idToToken: make([]string, 0, 512),
	}
	for _, tok := range reserved {
		v.tokenToId[tok] = len(v.idToToken)
		v.idToToken = append(v.idToToken, tok)
	}
	return v
}

// Intern returns the id of a token, assigning the next unused id if the
// token has not been seen before. Interning an already known token never
// changes the vocabulary.
func (v *Vocab) Intern(token string) int {
	if id, ok := v.tokenToId[token]; ok {
		return id
	}
	id := len(v.idToToken)
	v.tokenToId[token] = id
	v.idToToken = append(v.idToToken, token)
	return id
}

// Id returns the id of a token, or UnkId if the token is not in the
// vocabulary.
func (v *Vocab) Id(token string) int {
	if id, ok := v.tokenToId[token]; ok {
		return id
	}
	return UnkId
}

// Token returns the token with the given id. Token panics if the id was
// never assigned.
func (v *Vocab) Token(id int) string {
	if id < 0 || id >= len(v.idToToken) {
		panic(fmt.Sprintf("The id %d has not been assigned in a vocabulary "+
			"of size %d.", id, len(v.idToToken)))
	}
	return v.idToToken[id]
}

// Size returns the number of tokens in the vocabulary, reserved tokens
// included.
func (v *Vocab) Size() int {
	return len(v.idToToken)
}

// Tokens returns a copy of all tokens in id order.
func (v *Vocab) Tokens() []string {
	tokens := make([]string, len(v.idToToken))
	copy(tokens, v.idToToken)
	return tokens
}

// Write serializes the vocabulary as one token per line, in id order, so
// that a token's id is its line number. Reading the output back with Read
// reproduces the mapping exactly.
func (v *Vocab) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, tok := range v.idToToken {
		if _, err := fmt.Fprintln(bw, tok); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the vocabulary to a file, replacing whatever was there.
func (v *Vocab) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := v.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a vocabulary previously produced by Write. The first lines
// must be the reserved tokens in their reserved order; anything else means
// the file is not one of ours.
func Read(r io.Reader) (*Vocab, error) {
	v := &Vocab{
		tokenToId: make(map[string]int, 512),
		idToToken: make([]string, 0, 512),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tok := scanner.Text()
		if _, ok := v.tokenToId[tok]; ok {
			return nil, fmt.Errorf("The token '%s' appears more than once; "+
				"a vocabulary maps each token to exactly one id.", tok)
		}
		v.tokenToId[tok] = len(v.idToToken)
		v.idToToken = append(v.idToToken, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(v.idToToken) < len(reserved) {
		return nil, fmt.Errorf("A vocabulary must contain at least the %d "+
			"reserved tokens, but only %d lines were read.",
			len(reserved), len(v.idToToken))
	}
	for i, tok := range reserved {
		if v.idToToken[i] != tok {
			return nil, fmt.Errorf("Expected reserved token '%s' at id %d, "+
				"but found '%s'.", tok, i, v.idToToken[i])
		}
	}
	return v, nil
}

// Load reads a vocabulary from a file written by Save.
func Load(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
