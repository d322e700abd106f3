package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Each blank-line separated
// paragraph becomes one text block.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := newFlowDocument(filename)
	var current []string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			doc.addText(current...)
			current = current[:0]
		} else {
			current = append(current, line)
		}
	}
	doc.addText(current...)

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}
