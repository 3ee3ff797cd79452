// Package gaps reports references inside a candidate opening that lean on
// context the opening itself never supplies.
package gaps

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dotcommander/opener/internal/entity"
	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/reveal"
)

type Config struct {
	// GapWords is the default prose budget for filling one gap.
	GapWords int `yaml:"gap_words" env:"GAP_WORDS" validate:"required,min=1,max=2000"`
	MaxFacts int `yaml:"max_facts" env:"MAX_FACTS" validate:"required,min=1,max=20"`
}

func DefaultConfig() Config {
	return Config{GapWords: 50, MaxFacts: 3}
}

// Analyzer reads the shared graph and detector only; it is safe for
// concurrent use.
type Analyzer struct {
	detector *entity.Detector
	graph    *reveal.Graph
	cfg      Config
}

// NewAnalyzer builds an analyzer. graph may be nil, in which case required
// facts always come from the category templates.
func NewAnalyzer(detector *entity.Detector, graph *reveal.Graph, cfg Config) *Analyzer {
	if detector == nil {
		detector = entity.NewDetector()
	}
	return &Analyzer{detector: detector, graph: graph, cfg: cfg}
}

// Analyze runs the reference detector over the candidate's scenes in order.
// The established set starts empty and grows only from earlier scenes of the
// candidate. A reference counts as a gap when it is still unresolved at the
// end of the span: a non-pronoun reference whose entity is introduced later in
// the span ("the letter" ... "a letter") is resolved. Repeats of the same
// (reference type, entity) pair are reported once.
func (a *Analyzer) Analyze(c manuscript.OpeningCandidate, scenes []manuscript.Scene) ([]manuscript.ContextGap, error) {
	span := manuscript.Span(c, scenes)
	if len(span) == 0 || len(span) != len(c.Scenes) {
		return nil, manuscript.NewValidationError("candidate.scenes", "candidate scenes not found in manuscript", c.Scenes)
	}

	established := entity.NewEstablished()
	var pending []located
	intros := make(map[string][]position)

	for i, scene := range span {
		refs := a.detector.Detect(scene, established)
		for _, ref := range refs {
			pending = append(pending, located{ref: ref, at: position{i, ref.Anchor.Offset}})
		}
		for _, site := range entity.IndefiniteSites(scene.Text) {
			intros[site.Key] = append(intros[site.Key], position{i, site.Offset})
		}

		for _, k := range entity.Introductions(scene.Text) {
			established.Add(k)
		}
		for _, k := range entity.Keys(refs) {
			established.Add(k)
		}
	}

	type key struct {
		rt        manuscript.ReferenceType
		canonical string
	}
	seen := make(map[key]struct{})
	out := []manuscript.ContextGap{}
	for _, p := range pending {
		if resolvedLater(p, intros) {
			continue
		}
		k := key{p.ref.ReferenceType, p.ref.Canonical}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a.gap(c.ID, p.ref))
	}
	return out, nil
}

// position orders text inside a candidate: scene index, then byte offset.
type position struct {
	scene  int
	offset int
}

func (p position) after(q position) bool {
	if p.scene != q.scene {
		return p.scene > q.scene
	}
	return p.offset > q.offset
}

type located struct {
	ref manuscript.EntityReference
	at  position
}

// resolvedLater reports whether the span introduces the reference's entity
// after the reference itself. Pronouns never resolve this way.
func resolvedLater(l located, intros map[string][]position) bool {
	if l.ref.ReferenceType == manuscript.ReferencePronoun {
		return false
	}
	for _, at := range intros[l.ref.Canonical] {
		if at.after(l.at) {
			return true
		}
	}
	return false
}

func (a *Analyzer) gap(candidateID string, ref manuscript.EntityReference) manuscript.ContextGap {
	name := fmt.Sprintf("%s|%s|%s", candidateID, ref.ReferenceType, ref.Canonical)
	return manuscript.ContextGap{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String(),
		CandidateID: candidateID,
		Category:    ref.Category,
		Entity:      ref,
		RequiredInfo: manuscript.RequiredInfo{
			Facts:       a.facts(ref),
			TargetWords: a.cfg.GapWords,
		},
		Location: ref.Anchor,
	}
}

// facts prefers known reveals about the entity and falls back to a template
// naming what the reader is missing.
func (a *Analyzer) facts(ref manuscript.EntityReference) []string {
	if a.graph != nil {
		var out []string
		for _, r := range a.graph.MatchKey(entity.Subject(ref)) {
			out = append(out, r.Description)
			if len(out) == a.cfg.MaxFacts {
				break
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{template(ref)}
}

func template(ref manuscript.EntityReference) string {
	if ref.ReferenceType == manuscript.ReferencePronoun {
		return fmt.Sprintf("Who or what %q refers to", ref.Name)
	}
	switch ref.Category {
	case manuscript.CategoryCharacter:
		return fmt.Sprintf("Who %s is and why they matter here", ref.Name)
	case manuscript.CategoryLocation:
		return fmt.Sprintf("Where %s is and what it looks like", ref.Name)
	case manuscript.CategoryEvent:
		return fmt.Sprintf("What happened before %s", ref.Name)
	case manuscript.CategoryConcept:
		return fmt.Sprintf("The baseline behind %q", ref.Name)
	default:
		return fmt.Sprintf("What %s is and whose it is", ref.Name)
	}
}
