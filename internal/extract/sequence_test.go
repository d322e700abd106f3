package extract

import (
	"testing"

	"github.com/dgallion1/doctrans/internal/doctree"
)

func anchors(blocks []doctree.Block) []float64 {
	out := make([]float64, len(blocks))
	for i, b := range blocks {
		out[i] = b.Anchor()
	}
	return out
}

func TestSequenceOrdersByAnchor(t *testing.T) {
	in := []doctree.Block{
		&doctree.TextBlock{Y0: 300},
		&doctree.ImageBlock{Y0: 100},
		&doctree.TextBlock{Y0: 200},
	}
	got := anchors(Sequence(in))
	want := []float64{100, 200, 300}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if in[0].Anchor() != 300 {
		t.Fatal("input must not be reordered")
	}
}

func TestSequenceStableOnTies(t *testing.T) {
	a := &doctree.TextBlock{Y0: 50}
	b := &doctree.ImageBlock{Y0: 50, Ref: "b"}
	c := &doctree.TextBlock{Y0: 50}
	got := Sequence([]doctree.Block{a, b, c})
	if got[0] != a || got[1] != b || got[2] != c {
		t.Fatal("ties must keep extraction order")
	}
}

func TestSequenceFallbackLast(t *testing.T) {
	fb := &doctree.FallbackTextBlock{Sentences: []string{"x"}}
	got := Sequence([]doctree.Block{fb, &doctree.TextBlock{Y0: 1e9}})
	if got[1] != fb {
		t.Fatal("unanchored block should sort last")
	}
}

func TestSequencePermutation(t *testing.T) {
	in := make([]doctree.Block, 50)
	for i := range in {
		in[i] = &doctree.TextBlock{Y0: float64((i * 37) % 50)}
	}
	out := Sequence(in)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d", len(out))
	}
	seen := map[doctree.Block]bool{}
	for i, b := range out {
		seen[b] = true
		if i > 0 && out[i-1].Anchor() > b.Anchor() {
			t.Fatalf("not sorted at %d", i)
		}
	}
	if len(seen) != len(in) {
		t.Fatal("output is not a permutation of input")
	}
}

func TestSequenceEmpty(t *testing.T) {
	if got := Sequence(nil); len(got) != 0 {
		t.Fatalf("got %d blocks", len(got))
	}
}
