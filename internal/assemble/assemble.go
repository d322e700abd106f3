// Package assemble writes translated sentences and page images, in reading
// order, into the output document.
package assemble

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/doctrans/internal/doctree"
	"github.com/dgallion1/doctrans/internal/translate"
)

// Sink is an append-only output document.
type Sink interface {
	AddParagraph(text string)
	// AddImage places an image widthEMU wide and heightEMU high.
	AddImage(data []byte, widthEMU, heightEMU int64) error
	WriteTo(w io.Writer) (int64, error)
}

const emuPerInch = 914400

// DefaultImageWidthInches is the display width of every embedded image.
const DefaultImageWidthInches = 6.0

// ErrorNotice formats the paragraph written in place of a failed sentence.
func ErrorNotice(n int, detail, original string) string {
	return fmt.Sprintf("Sentence %d (Error): %s\nOriginal: %s", n, detail, original)
}

// Assembler appends content to a Sink and numbers sentences across the
// whole document.
type Assembler struct {
	sink       Sink
	imageWidth int64
	next       int

	translated int
	failed     int
	images     int
}

func New(sink Sink, imageWidthInches float64) *Assembler {
	if imageWidthInches <= 0 {
		imageWidthInches = DefaultImageWidthInches
	}
	return &Assembler{
		sink:       sink,
		imageWidth: int64(imageWidthInches * emuPerInch),
		next:       1,
	}
}

// AppendSentences writes one paragraph per result in index order. Results
// with a blank original are skipped and not numbered.
func (a *Assembler) AppendSentences(results []translate.Result) {
	for _, r := range results {
		if strings.TrimSpace(r.Original) == "" {
			continue
		}
		if r.Failed() {
			a.sink.AddParagraph(ErrorNotice(a.next, r.ErrorDetail(), r.Original))
			a.failed++
		} else {
			a.sink.AddParagraph(r.Translated)
			a.translated++
		}
		a.next++
	}
}

// AppendImage embeds asset at the fixed display width, keeping its aspect
// ratio. Unknown dimensions produce a square.
func (a *Assembler) AppendImage(asset doctree.ImageAsset) error {
	if len(asset.Data) == 0 {
		return fmt.Errorf("image %q has no data", asset.ID)
	}
	h := a.imageWidth
	if asset.Width > 0 && asset.Height > 0 {
		h = a.imageWidth * int64(asset.Height) / int64(asset.Width)
	}
	if err := a.sink.AddImage(asset.Data, a.imageWidth, h); err != nil {
		return fmt.Errorf("add image %q: %w", asset.ID, err)
	}
	a.images++
	return nil
}

// Counts reports how many sentences were translated or failed and how many
// images were embedded so far.
func (a *Assembler) Counts() (translated, failed, images int) {
	return a.translated, a.failed, a.images
}

// WriteTo saves the document.
func (a *Assembler) WriteTo(w io.Writer) (int64, error) {
	return a.sink.WriteTo(w)
}
