package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/dgallion1/doctrans/internal/doctree"
	"github.com/dgallion1/doctrans/internal/extract"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. Text and image placements come from
// ledongthuc/pdf, image payloads from pdfcpu. A page whose structure or
// images cannot be read falls back to its plain text, and optionally to
// pdftotext.
type PDFParser struct {
	Options
}

func (p *PDFParser) Parse(r io.Reader, filename string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	reader, err := openPDFReader(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfDocument{
		title:  Title(filename),
		data:   data,
		reader: reader,
		opts:   p.Options,
		log:    p.logger().With("file", Title(filename)),
	}, nil
}

func openPDFReader(data []byte) (r *pdflib.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	return pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
}

type pdfDocument struct {
	title  string
	data   []byte
	reader *pdflib.Reader
	opts   Options
	log    *slog.Logger

	imagesOnce sync.Once
	images     map[int][]doctree.ImageAsset
	imagesErr  error
}

func (d *pdfDocument) Title() string { return d.title }

func (d *pdfDocument) NumPages() int {
	n, err := safeNumPages(d.reader)
	if err != nil {
		d.log.Warn("count pdf pages", "error", err)
		return 0
	}
	return n
}

func safeNumPages(r *pdflib.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf page count panic: %v", rec)
		}
	}()
	return r.NumPage(), nil
}

func (d *pdfDocument) Close() error {
	d.data = nil
	d.images = nil
	return nil
}

func (d *pdfDocument) Page(n int) *doctree.Page {
	page, err := d.structuredPage(n)
	if err == nil {
		return page
	}
	d.log.Warn("structured extraction failed, using page text", "page", n, "error", err)
	return d.fallbackPage(n, err)
}

func (d *pdfDocument) structuredPage(n int) (page *doctree.Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			page, err = nil, fmt.Errorf("pdf page panic: %v", rec)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", n)
	}
	height := pageHeight(p.V)

	placements, sizes, err := imagePlacements(p, height)
	if err != nil {
		return nil, err
	}
	raw, err := textToRawBlocks(p.Content().Text, height)
	if err != nil {
		return nil, err
	}
	raw = append(raw, placements...)

	blocks, skipped := extract.Elements(raw)
	if skipped > 0 {
		d.log.Debug("skipped malformed elements", "page", n, "count", skipped)
	}

	assets, err := d.pageImages(n)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	for i := range assets {
		a := &assets[i]
		if a.Width > 0 && a.Height > 0 {
			continue
		}
		if sz, ok := sizes[a.ID]; ok {
			a.Width, a.Height = sz.width, sz.height
		}
	}
	return &doctree.Page{Number: n, Blocks: blocks, Images: assets}, nil
}

func (d *pdfDocument) fallbackPage(n int, cause error) *doctree.Page {
	page := &doctree.Page{Number: n, Fallback: true, Reason: cause.Error()}

	text, err := d.plainText(n)
	if err != nil && d.opts.FallbackPdftotext {
		text, err = pdftotextPage(d.data, n)
	}
	if err != nil {
		d.log.Warn("page text unavailable", "page", n, "error", err)
		page.Blocks = []doctree.Block{&doctree.FallbackTextBlock{}}
		return page
	}

	flat := extract.FlattenPageText(text)
	var sentences []string
	if d.opts.Segmenter != nil {
		sentences = d.opts.Segmenter.Split(flat)
	} else if flat != "" {
		sentences = []string{flat}
	}
	page.Blocks = []doctree.Block{&doctree.FallbackTextBlock{Sentences: sentences}}
	return page
}

func (d *pdfDocument) plainText(n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf plain text panic: %v", rec)
		}
	}()
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d not found", n)
	}
	return p.GetPlainText(nil)
}

func pdftotextPage(data []byte, n int) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	page := strconv.Itoa(n)
	cmd := exec.CommandContext(ctx, "pdftotext", "-f", page, "-l", page, "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// pageHeight returns the height of the page's MediaBox, which may be
// inherited from the page tree. US Letter is assumed when none is found.
func pageHeight(v pdflib.Value) float64 {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdflib.Array && mb.Len() == 4 {
			if h := mb.Index(3).Float64() - mb.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return 792
}
