package parser

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doctrans/internal/doctree"
)

// flowDocument is a document without pagination: the whole source is one
// page whose blocks are anchored at their position in the source.
type flowDocument struct {
	title string
	page  doctree.Page
	dir   string
}

func newFlowDocument(filename string) *flowDocument {
	return &flowDocument{
		title: Title(filename),
		page:  doctree.Page{Number: 1},
		dir:   filepath.Dir(filename),
	}
}

func (d *flowDocument) Title() string { return d.title }
func (d *flowDocument) NumPages() int { return 1 }
func (d *flowDocument) Close() error  { return nil }

func (d *flowDocument) Page(n int) *doctree.Page {
	if n != 1 {
		return &doctree.Page{Number: n}
	}
	return &d.page
}

// addText appends a text block with one line per element of lines. Blank
// input adds nothing.
func (d *flowDocument) addText(lines ...string) {
	var spans []doctree.LineSpan
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			spans = append(spans, doctree.LineSpan{Fragments: []string{l}})
		}
	}
	if len(spans) == 0 {
		return
	}
	d.page.Blocks = append(d.page.Blocks, &doctree.TextBlock{Lines: spans, Y0: d.anchor()})
}

// addImage appends an image block for src and, when src is a readable
// local file, its asset. Remote images keep their block so positional
// matching stays aligned, but have no data.
func (d *flowDocument) addImage(src string) {
	if src == "" {
		return
	}
	d.page.Blocks = append(d.page.Blocks, &doctree.ImageBlock{Y0: d.anchor(), Ref: src})
	if asset, ok := d.loadImage(src); ok {
		d.page.Images = append(d.page.Images, asset)
	}
}

func (d *flowDocument) anchor() float64 { return float64(len(d.page.Blocks)) }

func (d *flowDocument) loadImage(src string) (doctree.ImageAsset, bool) {
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && u.Scheme != "file" {
		return doctree.ImageAsset{}, false
	}
	path := strings.TrimPrefix(src, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return doctree.ImageAsset{}, false
	}
	asset := doctree.ImageAsset{ID: src, Data: data}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		asset.Width, asset.Height, asset.Format = cfg.Width, cfg.Height, format
	}
	return asset, true
}
