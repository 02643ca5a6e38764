package transcript

import (
	"bytes"
	"testing"

	"FRIVeil/bfield"
)

func TestDeterministicReplay(t *testing.T) {
	run := func() (bfield.Elem, uint64) {
		tr := New("test")
		tr.Append("msg", []byte{1, 2, 3})
		tr.AppendElem("elem", bfield.Elem{5, 6})
		return tr.ChallengeElem("alpha"), tr.ChallengeIndex("query", 64)
	}
	e1, i1 := run()
	e2, i2 := run()
	if e1 != e2 || i1 != i2 {
		t.Fatal("identical histories yield different challenges")
	}
}

func TestHistorySensitivity(t *testing.T) {
	base := New("test")
	base.Append("msg", []byte{1, 2, 3})

	altered := New("test")
	altered.Append("msg", []byte{1, 2, 4})
	if base.ChallengeElem("alpha") == altered.ChallengeElem("alpha") {
		t.Fatal("challenge ignores absorbed data")
	}

	relabeled := New("test")
	relabeled.Append("gsm", []byte{1, 2, 3})
	if base.ChallengeElem("beta") == relabeled.ChallengeElem("beta") {
		t.Fatal("challenge ignores labels")
	}
}

func TestFramingResistsBoundaryShift(t *testing.T) {
	// Moving a byte across a record boundary must change the challenges.
	a := New("test")
	a.Append("x", []byte{1, 2})
	a.Append("y", []byte{3})

	b := New("test")
	b.Append("x", []byte{1})
	b.Append("y", []byte{2, 3})
	if a.ChallengeElem("c") == b.ChallengeElem("c") {
		t.Fatal("record framing is ambiguous")
	}
}

func TestSuccessiveDrawsDiffer(t *testing.T) {
	tr := New("test")
	tr.Append("msg", []byte{42})
	if tr.ChallengeElem("c") == tr.ChallengeElem("c") {
		t.Fatal("repeated draws collide")
	}
}

func TestDrawWidthIsBound(t *testing.T) {
	// Draws of different widths under the same label must not share a
	// prefix: the width is part of the draw record.
	a := New("test")
	b := New("test")
	wide := a.ChallengeBytes("c", 16)
	narrow := b.ChallengeBytes("c", 8)
	if bytes.Equal(wide[:8], narrow) {
		t.Fatal("challenge ignores the draw width")
	}
}

func TestChallengeIndexBound(t *testing.T) {
	tr := New("test")
	for i := 0; i < 100; i++ {
		if got := tr.ChallengeIndex("q", 32); got >= 32 {
			t.Fatalf("index %d out of bound", got)
		}
	}
	defer func() {
		if recover() == nil {
			t.Fatal("non power-of-two bound not rejected")
		}
	}()
	tr.ChallengeIndex("q", 12)
}
