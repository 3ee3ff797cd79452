// Package reveal extracts narrative facts from scene text and links them into
// the shared reveal dependency graph.
package reveal

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
)

// All patterns are case-sensitive: capitalisation separates names from common
// nouns. Matching is leftmost-first and every quantifier is greedy.
var (
	// "<the noun|Name> is|was [not] <the|a|an noun|Name>"
	copulaPattern = regexp.MustCompile(`(?:\b[Tt]he\s+([a-z][a-z-]+)|\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?))\s+(is|was|are|were)\s+(not\s+)?(?:(?:the|a|an)\s+([a-z][a-z-]+)|([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?))\b`)

	// "<Name> is|was [not] dead|alive|..."
	statePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(is|was)\s+(not\s+)?(dead|alive|missing|pregnant|married|engaged)\b`)

	// "<Name|the noun>'s <kin> is|was <Name|the noun>"
	relationPattern = regexp.MustCompile(`(?:\b[Tt]he\s+([a-z][a-z-]+)|\b([A-Z][a-z]+))['’]s\s+([a-z]+)\s+(is|was)\s+(?:the\s+([a-z][a-z-]+)|([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?))\b`)

	// "<Name> killed|murdered|... <Name|the noun>"
	deedPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(killed|murdered|betrayed|poisoned|stole|kidnapped|framed|blackmailed)\s+(?:the\s+([a-z][a-z-]+)|([A-Z][a-z]+))\b`)
)

// Fact is one fact-bearing match inside a scene, before graph linkage.
type Fact struct {
	ID          string
	Description string
	// Subject is the canonical key other facts use to depend on this one.
	Subject string
	Anchors []string
	Pattern string
	SceneID string
	// Offset and Length are relative to the scene text.
	Offset   int
	Length   int
	Sentence prose.Sentence
}

type match struct {
	fact  Fact
	order int
}

// Extract scans one scene sentence by sentence and returns its facts in
// reading order, de-duplicated by description.
func Extract(scene manuscript.Scene) []Fact {
	var out []Fact
	seen := make(map[string]struct{})
	for _, s := range prose.Sentences(scene.Text) {
		for _, f := range extractSentence(s) {
			if _, dup := seen[f.Description]; dup {
				continue
			}
			seen[f.Description] = struct{}{}
			f.SceneID = scene.ID
			out = append(out, f)
		}
	}
	return out
}

func extractSentence(s prose.Sentence) []Fact {
	var ms []match
	text := s.Text

	for _, loc := range copulaPattern.FindAllStringSubmatchIndex(text, -1) {
		subjNoun, subjName := group(text, loc, 1), stripStarters(group(text, loc, 2))
		verb, neg := group(text, loc, 3), group(text, loc, 4) != ""
		predNoun, predName := group(text, loc, 5), group(text, loc, 6)
		if subjNoun == "" && !validName(subjName) {
			continue
		}
		if predNoun == "" && !validName(predName) {
			continue
		}
		subj := firstNonEmpty(subjNoun, subjName)
		pred := firstNonEmpty(predNoun, predName)
		desc := join(subj, copula(verb), negation(neg), pred)
		ms = append(ms, match{order: 0, fact: Fact{
			Description: desc,
			Subject:     prose.Canonical(subj),
			Anchors:     anchors(subjNoun, subjName, predName),
			Pattern:     "copula",
			Offset:      loc[0],
			Length:      loc[1] - loc[0],
		}})
	}

	for _, loc := range statePattern.FindAllStringSubmatchIndex(text, -1) {
		name := stripStarters(group(text, loc, 1))
		if !validName(name) {
			continue
		}
		desc := join(name, "is", negation(group(text, loc, 3) != ""), group(text, loc, 4))
		ms = append(ms, match{order: 1, fact: Fact{
			Description: desc,
			Subject:     prose.Canonical(name),
			Anchors:     anchors("", name),
			Pattern:     "state",
			Offset:      loc[0],
			Length:      loc[1] - loc[0],
		}})
	}

	for _, loc := range relationPattern.FindAllStringSubmatchIndex(text, -1) {
		ownerNoun, ownerName := group(text, loc, 1), group(text, loc, 2)
		kin := group(text, loc, 3)
		predNoun, predName := group(text, loc, 5), group(text, loc, 6)
		if !prose.IsKinNoun(kin) || (ownerNoun == "" && !validName(ownerName)) {
			continue
		}
		if predNoun == "" && !validName(predName) {
			continue
		}
		owner := firstNonEmpty(ownerNoun, ownerName)
		subject := prose.Canonical(owner) + "'s " + kin
		desc := join(subject, "is", firstNonEmpty(predNoun, predName))
		ms = append(ms, match{order: 2, fact: Fact{
			Description: desc,
			Subject:     subject,
			Anchors:     anchors(ownerNoun, ownerName, predName),
			Pattern:     "relationship",
			Offset:      loc[0],
			Length:      loc[1] - loc[0],
		}})
	}

	for _, loc := range deedPattern.FindAllStringSubmatchIndex(text, -1) {
		agent := group(text, loc, 1)
		objNoun, objName := group(text, loc, 3), group(text, loc, 4)
		if !validName(agent) || (objNoun == "" && !validName(objName)) {
			continue
		}
		obj := firstNonEmpty(objNoun, objName)
		if objNoun != "" {
			obj = "the " + objNoun
		}
		desc := join(agent, group(text, loc, 2), obj)
		ms = append(ms, match{order: 3, fact: Fact{
			Description: desc,
			Subject:     prose.Canonical(agent),
			Anchors:     anchors("", agent, objName),
			Pattern:     "deed",
			Offset:      loc[0],
			Length:      loc[1] - loc[0],
		}})
	}

	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].fact.Offset == ms[j].fact.Offset {
			return ms[i].order < ms[j].order
		}
		return ms[i].fact.Offset < ms[j].fact.Offset
	})

	out := make([]Fact, 0, len(ms))
	for _, m := range ms {
		f := m.fact
		f.Description = prose.Canonical(f.Description)
		f.ID = prose.ContentHash(f.Description)
		f.Offset += s.Start
		f.Sentence = s
		out = append(out, f)
	}
	return out
}

func group(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}

// stripStarters drops leading sentence-starter tokens from a captured name,
// so "When Sarah" yields "Sarah".
func stripStarters(name string) string {
	fields := strings.Fields(name)
	for len(fields) > 0 && prose.IsSentenceStarter(fields[0]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, tok := range strings.Fields(name) {
		if !prose.IsNameCandidate(tok) {
			return false
		}
	}
	return true
}

// anchors lists the terms a later sentence must contain to reference the
// fact: its names, or else the subject noun when it is not self-evident.
func anchors(subjNoun string, names ...string) []string {
	var out []string
	for _, n := range names {
		if n != "" {
			out = append(out, prose.Canonical(n))
		}
	}
	if len(out) == 0 && subjNoun != "" && !prose.IsSelfEvident(subjNoun) {
		out = append(out, prose.Canonical(subjNoun))
	}
	return out
}

func copula(verb string) string {
	if verb == "are" || verb == "were" {
		return "are"
	}
	return "is"
}

func negation(neg bool) string {
	if neg {
		return "not"
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func join(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
