package parser

import (
	"errors"
	"math"
	"testing"

	"github.com/dgallion1/doctrans/internal/doctree"
	"github.com/dgallion1/doctrans/internal/extract"
	pdflib "github.com/ledongthuc/pdf"
)

func TestTextToRawBlocks(t *testing.T) {
	texts := []pdflib.Text{
		// Listed bottom first; grouping must follow the page top down.
		{FontSize: 10, X: 72, Y: 600, W: 50, S: "New block."},
		{FontSize: 10, X: 95, Y: 700, W: 25, S: "world."},
		{FontSize: 10, X: 72, Y: 700, W: 20, S: "Hello"},
		{FontSize: 10, X: 72, Y: 688, W: 5, S: "H"},
		{FontSize: 10, X: 77, Y: 688, W: 5, S: "i"},
		{FontSize: 10, X: 72, Y: 650, W: 5, S: "   "},
	}

	raw, err := textToRawBlocks(texts, 792)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(raw), raw)
	}

	first := raw[0]
	if first.Type != extract.TypeText {
		t.Fatalf("unexpected type %d", first.Type)
	}
	if len(first.Lines) != 2 || first.Lines[0].Fragments[0] != "Hello world." || first.Lines[1].Fragments[0] != "Hi" {
		t.Fatalf("unexpected lines %+v", first.Lines)
	}
	wantBBox := []float64{72, 82, 120, 104}
	for i, v := range wantBBox {
		if math.Abs(first.BBox[i]-v) > 1e-9 {
			t.Fatalf("bbox = %v, want %v", first.BBox, wantBBox)
		}
	}
	if raw[1].BBox[1] != 182 {
		t.Fatalf("second block y0 = %v", raw[1].BBox[1])
	}

	blocks, skipped := extract.Elements(raw)
	if skipped != 0 || len(blocks) != 2 {
		t.Fatalf("elements: %d blocks, %d skipped", len(blocks), skipped)
	}
	if got := extract.FlattenText(blocks[0].(*doctree.TextBlock).Lines); got != "Hello world. Hi" {
		t.Fatalf("flattened = %q", got)
	}
}

func TestTextToRawBlocksKeepsGlyphOrderWithoutWidths(t *testing.T) {
	// Fonts without a Widths array place every glyph of a string at the
	// same x.
	var texts []pdflib.Text
	for _, r := range "Hi there." {
		texts = append(texts, pdflib.Text{FontSize: 12, X: 72, Y: 500, S: string(r)})
	}
	raw, err := textToRawBlocks(texts, 792)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 1 || raw[0].Lines[0].Fragments[0] != "Hi there." {
		t.Fatalf("got %+v", raw)
	}
	if raw[0].BBox[1] != 280 {
		t.Fatalf("y0 = %v, want 280", raw[0].BBox[1])
	}
}

func TestTextToRawBlocksEmpty(t *testing.T) {
	raw, err := textToRawBlocks(nil, 792)
	if err != nil || len(raw) != 0 {
		t.Fatalf("expected nothing, got %+v, %v", raw, err)
	}
	raw, err = textToRawBlocks([]pdflib.Text{{S: ""}, {X: 10, Y: 10, S: " "}}, 792)
	if err != nil || len(raw) != 0 {
		t.Fatalf("expected nothing, got %+v, %v", raw, err)
	}
}

func TestTextToRawBlocksWithoutPositions(t *testing.T) {
	texts := []pdflib.Text{{S: "A"}, {S: "b"}, {S: "."}}
	if _, err := textToRawBlocks(texts, 792); !errors.Is(err, errNoGeometry) {
		t.Fatalf("expected errNoGeometry, got %v", err)
	}
}

func TestMatrixMul(t *testing.T) {
	scale := matrix{100, 0, 0, 50, 0, 0}
	translate := matrix{1, 0, 0, 1, 10, 20}
	m := scale.mul(translate)
	if m != (matrix{100, 0, 0, 50, 10, 20}) {
		t.Fatalf("got %v", m)
	}
	x, y := m.apply(1, 1)
	if x != 110 || y != 70 {
		t.Fatalf("apply = %v,%v", x, y)
	}
	if identity.mul(m) != m || m.mul(identity) != m {
		t.Fatal("identity must be neutral")
	}
}

func TestUnitSquareBBox(t *testing.T) {
	ctm := matrix{200, 0, 0, 100, 50, 600}
	got := unitSquareBBox(ctm, 792)
	want := []float64{50, 92, 250, 192}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bbox = %v, want %v", got, want)
		}
	}

	// A vertically flipped placement covers the same area.
	flipped := matrix{200, 0, 0, -100, 50, 700}
	got = unitSquareBBox(flipped, 792)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flipped bbox = %v, want %v", got, want)
		}
	}
}
