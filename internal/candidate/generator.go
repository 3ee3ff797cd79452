// Package candidate proposes alternate opening points for a manuscript by
// running several independent heuristics over its earliest scenes and ranking
// the merged results.
package candidate

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
)

// Generator is safe for concurrent use; Generate keeps all state local.
type Generator struct {
	cfg      Config
	analyzer SceneAnalyzer
	logger   *slog.Logger
}

type Option func(*Generator)

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator builds a generator. A nil analyzer falls back to
// LexicalAnalyzer.
func NewGenerator(cfg Config, analyzer SceneAnalyzer, opts ...Option) *Generator {
	if analyzer == nil {
		analyzer = LexicalAnalyzer{}
	}
	g := &Generator{cfg: cfg, analyzer: analyzer, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns ranked, de-duplicated candidates. Malformed or empty input
// yields an empty slice rather than an error.
func (g *Generator) Generate(scenes []manuscript.Scene) []manuscript.OpeningCandidate {
	if err := manuscript.ValidateScenes(scenes); err != nil {
		g.logger.Debug("No candidates for malformed input", "error", err)
		return []manuscript.OpeningCandidate{}
	}

	f := measure(scenes, g.analyzer)
	c := newCast()

	var spans []span
	for _, s := range strategies() {
		var found []span
		found, c = s(g.cfg, f, c)
		spans = append(spans, found...)
	}

	seen := make(map[string]struct{}, len(spans))
	proposed := 0
	var out []manuscript.OpeningCandidate
	for _, sp := range spans {
		var cand manuscript.OpeningCandidate
		cand, c = build(f, sp, c)
		if _, dup := seen[cand.ID]; dup {
			continue
		}
		seen[cand.ID] = struct{}{}
		proposed++
		if !g.keep(cand) {
			continue
		}
		out = append(out, cand)
	}

	Rank(out)
	if len(out) > g.cfg.MaxCandidates {
		out = out[:g.cfg.MaxCandidates]
	}
	if out == nil {
		out = []manuscript.OpeningCandidate{}
	}

	g.logger.Debug("Generated opening candidates",
		"scene_count", len(scenes),
		"proposed_count", proposed,
		"kept_count", len(out),
	)
	return out
}

func (g *Generator) keep(c manuscript.OpeningCandidate) bool {
	return c.HookScore >= g.cfg.MinHookScore &&
		c.TotalWords >= g.cfg.MinWords &&
		c.DialogueRatio > g.cfg.MinDialogueRatio
}

// Rank orders candidates by hook score, then action density, then mystery
// quotient, all descending, with the id as a final ascending tie-break.
func Rank(cs []manuscript.OpeningCandidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.HookScore != b.HookScore {
			return a.HookScore > b.HookScore
		}
		if a.ActionDensity != b.ActionDensity {
			return a.ActionDensity > b.ActionDensity
		}
		if a.MysteryQuotient != b.MysteryQuotient {
			return a.MysteryQuotient > b.MysteryQuotient
		}
		return a.ID < b.ID
	})
}

func measure(scenes []manuscript.Scene, analyzer SceneAnalyzer) *features {
	n := len(scenes)
	f := &features{
		scenes:    scenes,
		hook:      make([]float64, n),
		action:    make([]float64, n),
		mystery:   make([]float64, n),
		actions:   make([]int, n),
		questions: make([]int, n),
		sentences: make([]int, n),
	}
	for i, s := range scenes {
		f.hook[i] = clamp01(analyzer.HookScore(s))
		f.action[i] = ActionDensity(s.Text)
		f.mystery[i] = MysteryQuotient(s.Text)
		f.actions[i] = prose.CountActionVerbs(s.Text)
		f.questions[i] = strings.Count(s.Text, "?")
		f.sentences[i] = len(prose.Sentences(s.Text))
	}
	return f
}

// build scores the span. Character intros need the cast to cover the span, so
// the extended cast is returned.
func build(f *features, sp span, c cast) (manuscript.OpeningCandidate, cast) {
	c = c.through(f.scenes, sp.end+1)
	members := f.scenes[sp.start : sp.end+1]

	ids := make([]string, len(members))
	var hook float64
	var words, chars, actions, questions, sentences int
	var weighted, plain float64
	for k, s := range members {
		i := sp.start + k
		ids[k] = s.ID
		hook += f.hook[i]
		words += s.WordCount
		chars += len(s.Text)
		actions += f.actions[i]
		questions += f.questions[i]
		sentences += f.sentences[i]
		weighted += float64(s.WordCount) * s.DialogueRatio
		plain += s.DialogueRatio
	}

	typ := manuscript.CandidateTypeFor(len(members))
	cand := manuscript.OpeningCandidate{
		ID:              string(typ) + ":" + strings.Join(ids, "+"),
		Type:            typ,
		Scenes:          ids,
		StartOffset:     members[0].StartOffset,
		EndOffset:       members[len(members)-1].EndOffset,
		TotalWords:      words,
		HookScore:       hook / float64(len(members)),
		CharacterIntros: c.introsWithin(sp.start, sp.end),
		Pattern:         sp.pattern,
	}
	if chars > 0 {
		cand.ActionDensity = min1(float64(actions) / (float64(chars) / 1000))
	}
	if sentences > 0 {
		cand.MysteryQuotient = min1(float64(questions) / float64(sentences))
	}
	if words > 0 {
		cand.DialogueRatio = weighted / float64(words)
	} else {
		cand.DialogueRatio = plain / float64(len(members))
	}
	return cand, c
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
