// Package prose holds the lexical plumbing shared by the analysers: bounded
// sentence slicing, canonical keys, word lists and word counting.
package prose

import (
	"strings"
	"unicode/utf8"
)

// MaxSentenceBytes bounds a single match target. Longer runs without a
// terminator are cut at a rune boundary.
const MaxSentenceBytes = 2000

// Sentence is a slice of a text. Start and End are byte offsets into the
// source text, End exclusive; Text has surrounding whitespace trimmed and
// Start/End describe the trimmed span.
type Sentence struct {
	Start int
	End   int
	Text  string
}

var closers = []string{`"`, "'", ")", "]", "”", "’"}

// Sentences splits text on terminal punctuation followed by whitespace and on
// line breaks. Empty slices are dropped.
func Sentences(text string) []Sentence {
	var out []Sentence
	start := 0
	emit := func(end int) {
		seg := text[start:end]
		lead := len(seg) - len(strings.TrimLeft(seg, " \t\r\n"))
		trimmed := strings.TrimSpace(seg)
		if trimmed != "" {
			s := start + lead
			out = append(out, Sentence{Start: s, End: s + len(trimmed), Text: trimmed})
		}
		start = end
	}

	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\n':
			emit(i)
			i++
			start = i
			continue
		case c == '.' || c == '!' || c == '?':
			j := i + 1
			for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
				j++
			}
			j = skipClosers(text, j)
			if j >= len(text) || isSpace(text[j]) {
				emit(j)
				i = j
				continue
			}
			i = j
			continue
		}

		if i-start >= MaxSentenceBytes && utf8.RuneStart(c) {
			emit(i)
		}
		i++
	}
	if start < len(text) {
		emit(len(text))
	}
	return out
}

func skipClosers(text string, j int) int {
	for j < len(text) {
		matched := false
		for _, q := range closers {
			if strings.HasPrefix(text[j:], q) {
				j += len(q)
				matched = true
				break
			}
		}
		if !matched {
			return j
		}
	}
	return j
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// SentenceAt returns the sentence containing byte offset off, if any.
func SentenceAt(sentences []Sentence, off int) (Sentence, bool) {
	for _, s := range sentences {
		if off >= s.Start && off < s.End {
			return s, true
		}
	}
	return Sentence{}, false
}
