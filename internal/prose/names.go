package prose

import (
	"regexp"
	"sort"
	"strings"
)

var properNamePattern = regexp.MustCompile(`\b[A-Z][a-z]{2,}\b`)

// Mention is one capitalised-name occurrence, with a byte offset into the
// scanned text.
type Mention struct {
	Name   string
	Offset int
}

// NameCount is one entry of a frequency-ranked cast list.
type NameCount struct {
	Name  string
	Count int
}

// IsNameCandidate filters capitalised tokens that are common sentence openers,
// pronouns, adverbs or ordinary nouns.
func IsNameCandidate(w string) bool {
	if IsSentenceStarter(w) || IsPronoun(w) || IsGenericPronoun(w) || IsSelfEvident(w) {
		return false
	}
	return !ActionVerbPattern.MatchString(w)
}

// ProperNames returns capitalised-name mentions in text order.
func ProperNames(text string) []Mention {
	var out []Mention
	for _, s := range Sentences(text) {
		for _, loc := range properNamePattern.FindAllStringIndex(s.Text, -1) {
			w := s.Text[loc[0]:loc[1]]
			if rest := s.Text[loc[1]:]; strings.HasPrefix(rest, "'t") || strings.HasPrefix(rest, "’t") {
				continue
			}
			if !IsNameCandidate(w) {
				continue
			}
			out = append(out, Mention{Name: w, Offset: s.Start + loc[0]})
		}
	}
	return out
}

// RankNames counts mentions per name and orders them by count descending,
// breaking ties by name ascending.
func RankNames(mentions []Mention) []NameCount {
	counts := make(map[string]int)
	for _, m := range mentions {
		counts[m.Name]++
	}
	out := make([]NameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NameCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Name < out[j].Name
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// DistinctNames returns the names of a text in first-mention order.
func DistinctNames(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range ProperNames(text) {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		out = append(out, m.Name)
	}
	return out
}
