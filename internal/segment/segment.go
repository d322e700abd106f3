// Package segment splits block text into sentences.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/sentences"
	"golang.org/x/text/language"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Segmenter splits text into sentences for one source language.
type Segmenter struct {
	lang          language.Tag
	abbreviations map[string]bool
	beforeNumber  map[string]bool
}

// New returns a segmenter for lang. Languages without an abbreviation table
// use plain Unicode sentence boundaries.
func New(lang language.Tag) *Segmenter {
	base, _ := lang.Base()
	return &Segmenter{
		lang:          lang,
		abbreviations: abbreviationTables[base.String()],
		beforeNumber:  numberTables[base.String()],
	}
}

// Language returns the segmenter's source language.
func (s *Segmenter) Language() language.Tag {
	return s.lang
}

// Split returns the sentences of text in order. Whitespace is collapsed
// first, so joining the result with single spaces gives back the
// normalised input (modulo a space inserted where two sentences touched).
func (s *Segmenter) Split(text string) []string {
	text = strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	// Segments keep their trailing space until the end so merged
	// abbreviations concatenate back to the original text.
	var raw []string
	tokens := sentences.FromString(text)
	for tokens.Next() {
		seg := tokens.Value()
		if n := len(raw); n > 0 && s.continues(strings.TrimSpace(raw[n-1]), seg) {
			raw[n-1] += seg
			continue
		}
		raw = append(raw, seg)
	}

	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// continues reports whether a sentence ending the way prev does is really
// cut short by an abbreviation or an initial ("Dr.", "e.g.", "J."). next is
// the segment that would be merged.
func (s *Segmenter) continues(prev, next string) bool {
	if !strings.HasSuffix(prev, ".") {
		return false
	}
	word := prev[strings.LastIndexByte(prev, ' ')+1:]
	word = strings.TrimLeft(word, "(\"'“‘[")
	if word == "" {
		return false
	}
	lower := strings.ToLower(word)
	if s.abbreviations[lower] {
		return true
	}
	if s.beforeNumber[lower] {
		r, _ := utf8.DecodeRuneInString(strings.TrimSpace(next))
		return unicode.IsDigit(r)
	}
	// Single uppercase initial such as "J." in "J. Smith".
	r, size := utf8.DecodeRuneInString(word)
	return size+1 == len(word) && unicode.IsUpper(r)
}
