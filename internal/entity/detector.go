// Package entity detects references that presuppose context the reader may
// not have: pronouns, definite descriptions, possessives, state-change verbs,
// comparatives and unintroduced names at scene openings.
package entity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
)

// Every pattern is applied to one sentence at a time.
var (
	// Case-insensitive; generic pronouns are matched so they can be skipped explicitly.
	pronounPattern = regexp.MustCompile(`(?i)\b(he|she|him|her|his|hers|they|them|their|theirs|it|its|someone|anyone|everyone|no one|nobody|somebody|anybody|everybody|something|anything|everything|nothing)\b`)

	// Case-sensitive on the noun: "the X" with a lowercase X.
	definitePattern = regexp.MustCompile(`\b[Tt]he\s+([a-z][a-z-]+)\b`)

	// "Name's X"; straight or typographic apostrophe.
	possessivePattern = regexp.MustCompile(`\b([A-Z][a-z]+)['’]s\s+([a-z]+)`)

	actionPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(returned|resumed|continued|finished|stopped)\b`)

	// Case-insensitive; lazy filler of at most three words before "than".
	comparativePattern = regexp.MustCompile(`(?i)\b(more|less|better|worse|faster|slower)\b((?:\s+[a-z'-]+){0,3}?)\s+than\s+([a-z]+)\b`)

	// Anchored at the start of the scene's first sentence.
	openerPattern = regexp.MustCompile(`^\W*([A-Z][a-z]+)\b`)

	indefinitePattern = regexp.MustCompile(`\b(?:[Aa]n?)\s+([a-z][a-z-]+)\b`)
)

// Detector finds context-presupposing references in scene text. It holds no
// mutable state and is safe for concurrent use.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

type found struct {
	ref   manuscript.EntityReference
	order int
}

// Detect scans one scene. established holds canonical keys already known in
// the current traversal context; it is not modified. Names and indefinite
// phrases introduced earlier in the same scene extend the context sentence by
// sentence. Results are ordered by offset and unique per (offset, surface).
func (d *Detector) Detect(scene manuscript.Scene, established Established) []manuscript.EntityReference {
	return d.References(scene.ID, scene.Text, established)
}

// References is Detect over raw text attributed to sceneID.
func (d *Detector) References(sceneID, text string, established Established) []manuscript.EntityReference {
	ctx := established.Clone()
	var all []found

	for i, s := range prose.Sentences(text) {
		all = append(all, d.sentence(sceneID, s, i == 0, ctx)...)
		for _, key := range Introductions(s.Text) {
			ctx.Add(key)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ref.Anchor.Offset < all[j].ref.Anchor.Offset
	})

	type key struct {
		offset  int
		surface string
	}
	seen := make(map[key]struct{}, len(all))
	out := make([]manuscript.EntityReference, 0, len(all))
	for _, f := range all {
		k := key{f.ref.Anchor.Offset, f.ref.Name}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, f.ref)
	}
	return out
}

func (d *Detector) sentence(sceneID string, s prose.Sentence, opening bool, est Established) []found {
	var out []found
	text := s.Text
	add := func(order int, surface, canonical string, cat manuscript.Category, rt manuscript.ReferenceType, start int) {
		out = append(out, found{order: order, ref: manuscript.EntityReference{
			Name:          surface,
			Canonical:     canonical,
			Category:      cat,
			ReferenceType: rt,
			Anchor:        manuscript.Anchor{SceneID: sceneID, Offset: s.Start + start, Length: len(surface)},
			Context:       text,
		}})
	}

	if est.Len() == 0 {
		for _, loc := range pronounPattern.FindAllStringSubmatchIndex(text, -1) {
			word := text[loc[2]:loc[3]]
			if prose.IsGenericPronoun(word) {
				continue
			}
			add(0, word, prose.Lower(word), manuscript.Category(prose.PronounCategory(word)), manuscript.ReferencePronoun, loc[2])
		}
	}

	for _, loc := range possessivePattern.FindAllStringSubmatchIndex(text, -1) {
		owner := text[loc[2]:loc[3]]
		if !prose.IsNameCandidate(owner) {
			continue
		}
		key := prose.Canonical(owner)
		if est.Has(key) {
			continue
		}
		add(1, owner, key, manuscript.CategoryCharacter, manuscript.ReferencePossessive, loc[2])
	}

	for _, loc := range actionPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		if !prose.IsNameCandidate(name) || est.Has(prose.Canonical(name)) {
			continue
		}
		surface := text[loc[0]:loc[1]]
		add(2, surface, prose.Canonical(surface), manuscript.CategoryEvent, manuscript.ReferenceAction, loc[0])
	}

	for _, loc := range definitePattern.FindAllStringSubmatchIndex(text, -1) {
		noun := text[loc[2]:loc[3]]
		key := prose.Canonical(noun)
		if prose.IsSelfEvident(noun) || est.Has(key) {
			continue
		}
		add(3, text[loc[0]:loc[1]], key, manuscript.Category(prose.NounCategory(noun)), manuscript.ReferenceDefinite, loc[0])
	}

	for _, loc := range comparativePattern.FindAllStringSubmatchIndex(text, -1) {
		baseline := text[loc[6]:loc[7]]
		if est.Has(prose.Canonical(baseline)) {
			continue
		}
		surface := text[loc[0]:loc[1]]
		add(4, surface, prose.Canonical(surface), manuscript.CategoryConcept, manuscript.ReferenceComparative, loc[0])
	}

	if opening {
		if loc := openerPattern.FindStringSubmatchIndex(text); loc != nil {
			name := text[loc[2]:loc[3]]
			if prose.IsNameCandidate(name) && !est.Has(prose.Canonical(name)) {
				add(5, name, prose.Canonical(name), manuscript.CategoryCharacter, manuscript.ReferenceDefinite, loc[2])
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// Introductions lists the canonical keys a text establishes for later
// sentences: capitalised names and indefinite noun phrases ("a stranger").
func Introductions(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	push := func(k string) {
		if _, ok := seen[k]; ok || k == "" {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, m := range prose.ProperNames(text) {
		push(prose.Canonical(m.Name))
	}
	for _, s := range prose.Sentences(text) {
		for _, m := range indefinitePattern.FindAllStringSubmatch(s.Text, -1) {
			push(prose.Canonical(m[1]))
		}
	}
	return out
}

// Site is an indefinite introduction ("a letter") at a byte offset in the
// scanned text.
type Site struct {
	Key    string
	Offset int
}

// IndefiniteSites lists every indefinite introduction in text order. Names are
// left out: repeating a name does not explain who it belongs to.
func IndefiniteSites(text string) []Site {
	var out []Site
	for _, s := range prose.Sentences(text) {
		for _, loc := range indefinitePattern.FindAllStringSubmatchIndex(s.Text, -1) {
			out = append(out, Site{
				Key:    prose.Canonical(s.Text[loc[2]:loc[3]]),
				Offset: s.Start + loc[0],
			})
		}
	}
	return out
}

// Subject reduces a reference to the entity it is about: the actor of an
// action phrase ("marcus returned" -> "marcus"), the canonical key otherwise.
func Subject(ref manuscript.EntityReference) string {
	if ref.ReferenceType == manuscript.ReferenceAction {
		if f := strings.Fields(ref.Canonical); len(f) > 0 {
			return f[0]
		}
	}
	return ref.Canonical
}

// Keys returns the distinct canonical keys of refs in order.
func Keys(refs []manuscript.EntityReference) []string {
	seen := make(map[string]struct{}, len(refs))
	var out []string
	for _, r := range refs {
		if _, ok := seen[r.Canonical]; ok {
			continue
		}
		seen[r.Canonical] = struct{}{}
		out = append(out, r.Canonical)
	}
	return out
}
