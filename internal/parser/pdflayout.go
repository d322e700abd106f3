package parser

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/doctrans/internal/doctree"
	"github.com/dgallion1/doctrans/internal/extract"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	// A gap wider than this fraction of the font size between two glyph
	// runs on a row is a word break.
	wordGapRatio = 0.2
	// Rows whose baselines are further apart than this multiple of the
	// font size start a new block.
	blockGapRatio = 1.6
	defaultFontSize = 10.0
)

type textLine struct {
	top, bottom float64
	left, right float64
	size        float64
	text        string
}

var errNoGeometry = errors.New("text runs carry no position data")

// textToRawBlocks groups the glyphs of a page into lines by baseline and the
// lines into blocks by vertical spacing. Coordinates are converted to a
// top-left origin using pageHeight.
func textToRawBlocks(texts []pdflib.Text, pageHeight float64) ([]extract.RawBlock, error) {
	glyphs := make([]pdflib.Text, 0, len(texts))
	positioned := false
	visible := 0
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		glyphs = append(glyphs, t)
		if strings.TrimSpace(t.S) != "" {
			visible++
			if t.X != 0 || t.Y != 0 {
				positioned = true
			}
		}
	}
	if visible > 1 && !positioned {
		return nil, errNoGeometry
	}

	var lines []textLine
	for _, g := range baselineGroups(glyphs) {
		if l, ok := rowLine(g, g[0].Y, pageHeight); ok {
			lines = append(lines, l)
		}
	}
	return linesToRawBlocks(lines), nil
}

// baselineGroups clusters glyphs whose baselines lie within half a font
// size of each other, top of the page first. Glyph order within a group is
// the content stream order.
func baselineGroups(glyphs []pdflib.Text) []pdflib.TextHorizontal {
	sorted := make([]pdflib.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var groups []pdflib.TextHorizontal
	var cur pdflib.TextHorizontal
	for _, g := range sorted {
		if len(cur) > 0 {
			size := math.Max(fontSize(cur[0]), fontSize(g))
			if math.Abs(cur[0].Y-g.Y) > size/2 {
				groups = append(groups, cur)
				cur = nil
			}
		}
		cur = append(cur, g)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

func fontSize(t pdflib.Text) float64 {
	if t.FontSize <= 0 {
		return defaultFontSize
	}
	return t.FontSize
}

func linesToRawBlocks(lines []textLine) []extract.RawBlock {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].top < lines[j].top })

	var out []extract.RawBlock
	var cur []textLine
	flush := func() {
		if len(cur) == 0 {
			return
		}
		b := extract.RawBlock{Type: extract.TypeText}
		left, right := math.Inf(1), math.Inf(-1)
		for _, l := range cur {
			left = math.Min(left, l.left)
			right = math.Max(right, l.right)
			b.Lines = append(b.Lines, doctree.LineSpan{Fragments: []string{l.text}})
		}
		b.BBox = []float64{left, cur[0].top, right, cur[len(cur)-1].bottom}
		out = append(out, b)
		cur = nil
	}
	for _, l := range lines {
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			if l.top-prev.top > blockGapRatio*math.Max(l.size, prev.size) {
				flush()
			}
		}
		cur = append(cur, l)
	}
	flush()
	return out
}

// rowLine joins the glyph runs of one row, inserting a space where the
// horizontal gap between runs is wide enough to be a word break.
func rowLine(content pdflib.TextHorizontal, baseline, pageHeight float64) (textLine, bool) {
	texts := make([]pdflib.Text, 0, len(content))
	for _, t := range content {
		if t.S != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return textLine{}, false
	}
	sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var b strings.Builder
	size := 0.0
	end := math.Inf(-1)
	for _, t := range texts {
		fs := fontSize(t)
		size = math.Max(size, fs)
		if b.Len() > 0 && t.X-end > wordGapRatio*fs && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		end = math.Max(end, t.X+t.W)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return textLine{}, false
	}
	last := texts[len(texts)-1]
	return textLine{
		top:    pageHeight - baseline - size,
		bottom: pageHeight - baseline,
		left:   texts[0].X,
		right:  math.Max(end, last.X),
		size:   size,
		text:   text,
	}, true
}

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns m × n, the transform applying m first and then n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// unitSquareBBox maps the image space unit square through ctm and returns
// its bounding box with a top-left origin.
func unitSquareBBox(ctm matrix, pageHeight float64) []float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := ctm.apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return []float64{minX, pageHeight - maxY, maxX, pageHeight - minY}
}

// imageSize is the pixel size an image XObject declares.
type imageSize struct{ width, height int }

var errUnbalancedState = errors.New("content stream restores more graphics states than it saves")

// imagePlacements interprets the page content stream and reports where
// each image XObject is drawn, together with the pixel size each drawn
// image declares. A stream that pops an empty graphics state stack is
// rejected.
func imagePlacements(p pdflib.Page, pageHeight float64) ([]extract.RawBlock, map[string]imageSize, error) {
	xobjects := p.Resources().Key("XObject")

	var out []extract.RawBlock
	sizes := make(map[string]imageSize)
	var scanErr error
	ctm := identity
	var stack []matrix
	handle := func(stk *pdflib.Stack, op string) {
		// Operands of every operator are consumed here.
		defer func() {
			for stk.Len() > 0 {
				stk.Pop()
			}
		}()
		switch op {
		case "q":
			stack = append(stack, ctm)
		case "Q":
			if len(stack) == 0 {
				if scanErr == nil {
					scanErr = errUnbalancedState
				}
				return
			}
			ctm = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case "cm":
			if stk.Len() < 6 {
				return
			}
			var m matrix
			for i := 5; i >= 0; i-- {
				m[i] = stk.Pop().Float64()
			}
			ctm = m.mul(ctm)
		case "Do":
			if stk.Len() < 1 || xobjects.IsNull() {
				return
			}
			name := stk.Pop().Name()
			xo := xobjects.Key(name)
			if xo.Key("Subtype").Name() != "Image" {
				return
			}
			sizes[name] = imageSize{width: int(xo.Key("Width").Int64()), height: int(xo.Key("Height").Int64())}
			out = append(out, extract.RawBlock{
				Type: extract.TypeImage,
				BBox: unitSquareBBox(ctm, pageHeight),
				Ref:  name,
			})
		}
	}

	contents := p.V.Key("Contents")
	if contents.Kind() == pdflib.Array {
		for i := range contents.Len() {
			pdflib.Interpret(contents.Index(i), handle)
		}
	} else {
		pdflib.Interpret(contents, handle)
	}
	if scanErr != nil {
		return nil, nil, scanErr
	}
	return out, sizes, nil
}
