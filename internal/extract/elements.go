package extract

import (
	"math"
	"regexp"
	"strings"

	"github.com/dgallion1/doctrans/internal/doctree"
	"golang.org/x/text/unicode/norm"
)

// Raw block type tags as reported by the page parser.
const (
	TypeText  = 0
	TypeImage = 1
)

// RawBlock is a structural block as dumped by the page parser, before
// validation. BBox is (x0, y0, x1, y1) with y growing downward.
type RawBlock struct {
	Type  int
	BBox  []float64
	Lines []doctree.LineSpan
	Ref   string
}

// Elements turns raw parser blocks into typed blocks anchored at the top of
// their bounding box. Blocks without a usable bbox, or of a type this
// package does not know, are skipped and counted.
func Elements(raw []RawBlock) (blocks []doctree.Block, skipped int) {
	for _, rb := range raw {
		if !validBBox(rb.BBox) {
			skipped++
			continue
		}
		y0 := rb.BBox[1]
		switch rb.Type {
		case TypeText:
			blocks = append(blocks, &doctree.TextBlock{Lines: rb.Lines, Y0: y0})
		case TypeImage:
			blocks = append(blocks, &doctree.ImageBlock{Y0: y0, Ref: rb.Ref})
		default:
			skipped++
		}
	}
	return blocks, skipped
}

func validBBox(b []float64) bool {
	if len(b) != 4 {
		return false
	}
	for _, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

var spaceRun = regexp.MustCompile(`\s+`)

// FlattenText joins a text block's fragments with single spaces, collapses
// whitespace and folds compatibility characters (ligatures, full-width
// forms) to their plain equivalents.
func FlattenText(lines []doctree.LineSpan) string {
	var sb strings.Builder
	for _, line := range lines {
		for _, frag := range line.Fragments {
			sb.WriteString(frag)
			sb.WriteByte(' ')
		}
	}
	return Normalize(sb.String())
}

// Normalize collapses whitespace runs to one space, trims, and applies NFKC.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

var paragraphBreak = regexp.MustCompile(`\n[ \t\f\v]*\n\s*`)

// FlattenPageText prepares a page's plain-text dump for segmentation. A
// single line break becomes a space and whitespace runs collapse; blank
// lines survive as one paragraph break ("\n\n").
func FlattenPageText(s string) string {
	paras := paragraphBreak.Split(strings.ReplaceAll(s, "\r\n", "\n"), -1)
	out := paras[:0]
	for _, p := range paras {
		if p = Normalize(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
