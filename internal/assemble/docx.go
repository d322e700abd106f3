package assemble

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fumiama/go-docx"
	"github.com/fumiama/imgsz"
)

// DocxSink builds a .docx document in memory.
type DocxSink struct {
	doc *docx.Docx
}

func NewDocxSink() *DocxSink {
	return &DocxSink{doc: docx.New().WithDefaultTheme()}
}

func (s *DocxSink) AddParagraph(text string) {
	s.doc.AddParagraph().AddText(text)
}

// AddImage appends data as an inline picture in its own paragraph. Data
// that go-docx cannot measure is rejected before the paragraph is added.
func (s *DocxSink) AddImage(data []byte, widthEMU, heightEMU int64) (err error) {
	if _, _, err := imgsz.DecodeSize(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("embed image: %w", err)
	}
	// go-docx panics on some image payloads it cannot measure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("embed image: %v", r)
		}
	}()
	run, err := s.doc.AddParagraph().AddInlineDrawing(data)
	if err != nil {
		return fmt.Errorf("embed image: %w", err)
	}
	for _, child := range run.Children {
		if d, ok := child.(*docx.Drawing); ok && d.Inline != nil {
			d.Inline.Size(widthEMU, heightEMU)
		}
	}
	return nil
}

func (s *DocxSink) WriteTo(w io.Writer) (int64, error) {
	return s.doc.WriteTo(w)
}

// Save writes the document to path, creating its directory.
func Save(a *Assembler, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := a.WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
