package vocab

import (
	"bytes"
	"strings"
	"testing"
)

func TestReservedIds(t *testing.T) {
	v := New()
	if v.Size() != 4 {
		t.Fatalf("A fresh vocabulary should hold the 4 reserved tokens, "+
			"but holds %d.", v.Size())
	}
	checks := []struct {
		token string
		id    int
	}{
		{Pad, PadId}, {Start, StartId}, {End, EndId}, {Unk, UnkId},
	}
	for _, c := range checks {
		if got := v.Id(c.token); got != c.id {
			t.Fatalf("Reserved token %s should have id %d, got %d.",
				c.token, c.id, got)
		}
	}
}

func TestInternAppendOnly(t *testing.T) {
	v := New()
	first := v.Intern("GS")
	second := v.Intern("SV")
	if first != UnkId+1 || second != first+1 {
		t.Fatalf("Ids should be assigned monotonically after the reserved "+
			"ids, got %d and %d.", first, second)
	}

	// Interning again must return the same id and not grow the vocabulary.
	size := v.Size()
	if again := v.Intern("GS"); again != first {
		t.Fatalf("Re-interning changed the id from %d to %d.", first, again)
	}
	if v.Size() != size {
		t.Fatalf("Re-interning grew the vocabulary from %d to %d.",
			size, v.Size())
	}
}

func TestIdOfUnknownToken(t *testing.T) {
	v := New()
	if got := v.Id("never seen"); got != UnkId {
		t.Fatalf("An unseen token should resolve to the unknown id %d, "+
			"got %d.", UnkId, got)
	}
}

func TestDeterministicAssignment(t *testing.T) {
	tokens := []string{"GS", "SV", "VL", "GS", "1213", "SV"}
	v1, v2 := New(), New()
	for _, tok := range tokens {
		v1.Intern(tok)
	}
	for _, tok := range tokens {
		v2.Intern(tok)
	}
	if v1.Size() != v2.Size() {
		t.Fatalf("Two identical runs gave sizes %d and %d.",
			v1.Size(), v2.Size())
	}
	for i := 0; i < v1.Size(); i++ {
		if v1.Token(i) != v2.Token(i) {
			t.Fatalf("Id %d is '%s' in one run and '%s' in the other.",
				i, v1.Token(i), v2.Token(i))
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	v := New()
	for _, tok := range []string{"GS", "SV", "VL"} {
		v.Intern(tok)
	}

	var buf bytes.Buffer
	if err := v.Write(&buf); err != nil {
		t.Fatalf("%s", err)
	}
	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("%s", err)
	}
	if loaded.Size() != v.Size() {
		t.Fatalf("Round trip changed the size from %d to %d.",
			v.Size(), loaded.Size())
	}
	for i := 0; i < v.Size(); i++ {
		if loaded.Token(i) != v.Token(i) {
			t.Fatalf("Round trip changed id %d from '%s' to '%s'.",
				i, v.Token(i), loaded.Token(i))
		}
	}
}

func TestLoadedVocabularyExtends(t *testing.T) {
	v := New()
	gs := v.Intern("GS")

	var buf bytes.Buffer
	if err := v.Write(&buf); err != nil {
		t.Fatalf("%s", err)
	}
	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("%s", err)
	}

	// Re-tokenizing the same data must not move existing ids, and new
	// tokens continue after the old ones.
	if again := loaded.Intern("GS"); again != gs {
		t.Fatalf("Loading moved 'GS' from id %d to %d.", gs, again)
	}
	if fresh := loaded.Intern("VL"); fresh != gs+1 {
		t.Fatalf("A genuinely new token should get the next id %d, got %d.",
			gs+1, fresh)
	}
}

func TestReadRejectsForeignFiles(t *testing.T) {
	bad := []string{
		"",
		"GS\nSV\n",
		"<PAD>\n<START>\n<UNK>\n<END>\n",
		strings.Join([]string{Pad, Start, End, Unk, "GS", "GS"}, "\n"),
	}
	for _, text := range bad {
		if _, err := Read(strings.NewReader(text)); err == nil {
			t.Fatalf("Reading %q should fail, but did not.", text)
		}
	}
}
