// Package search finds words, phrases and character mentions in a segmented
// manuscript.
package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
)

// SnippetRadius is how many bytes of context a snippet keeps on each side of
// the match.
const SnippetRadius = 60

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`)

// Hit is one matching scene.
type Hit struct {
	SceneID   string `json:"sceneId"`
	ChapterID string `json:"chapterId"`
	// Offset is the manuscript offset of the first match.
	Offset  int     `json:"offset"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
	// Highlights are [start, end) byte ranges inside Snippet.
	Highlights [][2]int `json:"highlights"`

	order int
}

type token struct {
	key        string
	start, end int
}

type document struct {
	scene  manuscript.Scene
	tokens []token
	names  map[string]struct{}
}

// Index holds tokenised scenes. It is read-only after NewIndex and safe for
// concurrent use.
type Index struct {
	docs []document
}

func NewIndex(scenes []manuscript.Scene) *Index {
	ix := &Index{docs: make([]document, 0, len(scenes))}
	for _, s := range scenes {
		d := document{scene: s, tokens: tokenize(s.Text), names: make(map[string]struct{})}
		for _, m := range prose.ProperNames(s.Text) {
			d.names[prose.Canonical(m.Name)] = struct{}{}
		}
		ix.docs = append(ix.docs, d)
	}
	return ix
}

func (ix *Index) Len() int {
	return len(ix.docs)
}

func tokenize(text string) []token {
	locs := wordPattern.FindAllStringIndex(text, -1)
	out := make([]token, 0, len(locs))
	for _, loc := range locs {
		out = append(out, token{key: prose.Canonical(text[loc[0]:loc[1]]), start: loc[0], end: loc[1]})
	}
	return out
}

// Options narrows a search.
type Options struct {
	// Limit caps the hits returned; zero means no cap.
	Limit int
	// Character keeps only scenes that name this character.
	Character string
}

// Search matches query against every scene. Quoted phrases must all occur;
// bare terms score by damped frequency and at least one must occur when there
// is no phrase. A trailing * makes a term match as a prefix. Hits are ordered
// by score, then manuscript order.
func (ix *Index) Search(query string, opts Options) []Hit {
	q := parseQuery(query)
	if q.empty() {
		return []Hit{}
	}
	character := prose.Canonical(opts.Character)

	out := []Hit{}
	for i, d := range ix.docs {
		if character != "" {
			if _, ok := d.names[character]; !ok {
				continue
			}
		}
		score, spans, ok := q.match(d.tokens)
		if !ok {
			continue
		}
		out = append(out, d.hit(spans, score, i))
	}
	return rank(out, opts.Limit)
}

// CharacterMentions returns every scene naming the character, scored by the
// number of mentions.
func (ix *Index) CharacterMentions(name string, limit int) []Hit {
	key := prose.Canonical(name)
	out := []Hit{}
	if key == "" {
		return out
	}
	for i, d := range ix.docs {
		if _, ok := d.names[key]; !ok {
			continue
		}
		var spans [][2]int
		for _, m := range prose.ProperNames(d.scene.Text) {
			if prose.Canonical(m.Name) == key {
				spans = append(spans, [2]int{m.Offset, m.Offset + len(m.Name)})
			}
		}
		out = append(out, d.hit(spans, float64(len(spans)), i))
	}
	return rank(out, limit)
}

// hit builds a result around the first span; order carries manuscript order
// through ranking.
func (d document) hit(spans [][2]int, score float64, order int) Hit {
	sort.Slice(spans, func(a, b int) bool { return spans[a][0] < spans[b][0] })
	h := Hit{
		SceneID:    d.scene.ID,
		ChapterID:  d.scene.ChapterID,
		Offset:     d.scene.StartOffset,
		Score:      math.Round(score*1000) / 1000,
		Highlights: [][2]int{},
		order:      order,
	}
	text := d.scene.Text
	if len(spans) == 0 {
		h.Snippet = clip(text, 0, min(len(text), 2*SnippetRadius))
		return h
	}

	first := spans[0]
	h.Offset += first[0]
	from := backToRune(text, max(0, first[0]-SnippetRadius))
	to := forwardToRune(text, min(len(text), first[1]+SnippetRadius))
	h.Snippet = text[from:to]
	for _, sp := range spans {
		if sp[0] >= from && sp[1] <= to {
			h.Highlights = append(h.Highlights, [2]int{sp[0] - from, sp[1] - from})
		}
	}
	return h
}

func clip(text string, from, to int) string {
	return text[backToRune(text, from):forwardToRune(text, to)]
}

func backToRune(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

func forwardToRune(text string, i int) int {
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return i
}

func rank(hits []Hit, limit int) []Hit {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].order < hits[j].order
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// query is a parsed search string.
type query struct {
	phrases [][]string
	terms   []string
}

func (q query) empty() bool {
	return len(q.phrases) == 0 && len(q.terms) == 0
}

// parseQuery splits on spaces outside double quotes. Quoted runs become
// phrases; an unterminated quote runs to the end of the query.
func parseQuery(s string) query {
	var q query
	var cur strings.Builder
	inQuote := false
	flush := func(phrase bool) {
		text := cur.String()
		cur.Reset()
		if phrase {
			var words []string
			for _, t := range tokenize(text) {
				words = append(words, t.key)
			}
			if len(words) > 0 {
				q.phrases = append(q.phrases, words)
			}
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		prefix := strings.HasSuffix(text, "*")
		for _, t := range tokenize(text) {
			key := t.key
			if prefix {
				key += "*"
			}
			q.terms = append(q.terms, key)
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			flush(inQuote)
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			flush(false)
		default:
			cur.WriteRune(r)
		}
	}
	flush(inQuote)
	return q
}

// match scores tokens against the query and returns the matched byte spans.
func (q query) match(tokens []token) (float64, [][2]int, bool) {
	var spans [][2]int
	score := 0.0

	for _, p := range q.phrases {
		found := 0
		for i := 0; i+len(p) <= len(tokens); i++ {
			if phraseAt(tokens, i, p) {
				found++
				spans = append(spans, [2]int{tokens[i].start, tokens[i+len(p)-1].end})
			}
		}
		if found == 0 {
			return 0, nil, false
		}
		score += float64(len(p)) * (1 + math.Log(float64(found)))
	}

	matchedTerm := false
	for _, term := range q.terms {
		tf := 0
		for _, t := range tokens {
			if termMatches(term, t.key) {
				tf++
				spans = append(spans, [2]int{t.start, t.end})
			}
		}
		if tf > 0 {
			matchedTerm = true
			score += 1 + math.Log(float64(tf))
		}
	}
	if len(q.phrases) == 0 && !matchedTerm {
		return 0, nil, false
	}
	return score, spans, true
}

func phraseAt(tokens []token, i int, phrase []string) bool {
	for k, w := range phrase {
		if tokens[i+k].key != w {
			return false
		}
	}
	return true
}

func termMatches(term, key string) bool {
	if stem, ok := strings.CutSuffix(term, "*"); ok {
		return stem != "" && strings.HasPrefix(key, stem)
	}
	return term == key
}
