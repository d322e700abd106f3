package doctree

import "math"

// Block is one positioned piece of page content: a text run group, an image
// placement, or the synthetic whole-page text used when extraction fails.
type Block interface {
	// Anchor is the block's vertical position (top edge, growing downward).
	// Blocks without geometry report +Inf so they sort last.
	Anchor() float64
}

// LineSpan is one line of a text block as an ordered list of text fragments.
type LineSpan struct {
	Fragments []string
}

// TextBlock is a group of lines the parser reported as one structural block.
type TextBlock struct {
	Lines []LineSpan
	Y0    float64
}

func (b *TextBlock) Anchor() float64 { return b.Y0 }

// ImageBlock marks where an image is drawn on the page. Ref is the parser's
// resource name for the image when one is known.
type ImageBlock struct {
	Y0  float64
	Ref string
}

func (b *ImageBlock) Anchor() float64 { return b.Y0 }

// FallbackTextBlock holds the sentences of a page whose structure could not
// be extracted.
type FallbackTextBlock struct {
	Sentences []string
}

func (b *FallbackTextBlock) Anchor() float64 { return math.Inf(1) }

// ImageAsset is the decoded payload of a page image.
type ImageAsset struct {
	ID     string // Parser reference (PDF resource name, file path, ...)
	Data   []byte
	Width  int
	Height int
	Format string // jpg, png, ...
}

// Page is the extracted content of one source page.
type Page struct {
	Number   int          // 1-indexed
	Blocks   []Block      // Unordered; see extract.Sequence
	Images   []ImageAsset // In the order the parser listed them
	Fallback bool         // True when Blocks is a single FallbackTextBlock
	Reason   string       // Why the page fell back (empty otherwise)
}

// Counts reports how many blocks of each kind the page holds.
func (p *Page) Counts() (text, images int) {
	for _, b := range p.Blocks {
		switch b.(type) {
		case *TextBlock, *FallbackTextBlock:
			text++
		case *ImageBlock:
			images++
		}
	}
	return text, images
}
