// Package chunker cuts sentences that are too long for a single backend
// request into pieces that can be translated one after another.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// Split breaks text into pieces of at most maxChars runes. It prefers
// clause boundaries, then word boundaries, and cuts inside a word only when
// a single word is longer than maxChars. Text that fits is returned as is.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}

	var result []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			result = append(result, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, clause := range splitClauses(text) {
		clauseLen := utf8.RuneCountInString(clause)

		// A clause that cannot fit anywhere is split by words.
		if clauseLen > maxChars {
			flush()
			result = append(result, splitWords(clause, maxChars)...)
			continue
		}

		if currentLen+clauseLen > maxChars && currentLen > 0 {
			flush()
		}
		current.WriteString(clause)
		currentLen += clauseLen
	}
	flush()

	return result
}

// Join reassembles translated pieces. Scripts written without spaces are
// joined directly.
func Join(parts []string, target string) string {
	sep := " "
	switch strings.ToLower(primary(target)) {
	case "ja", "zh", "th", "lo", "km", "my":
		sep = ""
	}
	return strings.Join(parts, sep)
}

func primary(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return tag[:i]
	}
	return tag
}

// splitClauses cuts after clause punctuation, keeping the punctuation and
// any following space with the clause it ends.
func splitClauses(text string) []string {
	var clauses []string
	start := 0
	for i, r := range text {
		if !isClauseEnd(r) {
			continue
		}
		end := i + utf8.RuneLen(r)
		for end < len(text) && text[end] == ' ' {
			end++
		}
		clauses = append(clauses, text[start:end])
		start = end
	}
	if start < len(text) {
		clauses = append(clauses, text[start:])
	}
	return clauses
}

func isClauseEnd(r rune) bool {
	switch r {
	case ',', ';', ':', '、', '，', '；', '：', '。':
		return true
	}
	return false
}

// splitWords packs whole words into pieces of at most maxChars runes.
func splitWords(text string, maxChars int) []string {
	var result []string
	var current []string
	currentLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if wordLen > maxChars {
			if len(current) > 0 {
				result = append(result, strings.Join(current, " "))
				current, currentLen = nil, 0
			}
			result = append(result, splitRunes(word, maxChars)...)
			continue
		}
		// Joining adds one space per word after the first.
		extra := wordLen
		if len(current) > 0 {
			extra++
		}
		if currentLen+extra > maxChars && len(current) > 0 {
			result = append(result, strings.Join(current, " "))
			current, currentLen = nil, 0
			extra = wordLen
		}
		current = append(current, word)
		currentLen += extra
	}
	if len(current) > 0 {
		result = append(result, strings.Join(current, " "))
	}
	return result
}

func splitRunes(word string, maxChars int) []string {
	runes := []rune(word)
	var result []string
	for len(runes) > maxChars {
		result = append(result, string(runes[:maxChars]))
		runes = runes[maxChars:]
	}
	if len(runes) > 0 {
		result = append(result, string(runes))
	}
	return result
}
