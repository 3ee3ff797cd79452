package candidate

import (
	"math"
	"strings"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
)

// SceneAnalyzer supplies per-scene hook scores in [0, 1]. Implementations
// must be deterministic for a given scene.
type SceneAnalyzer interface {
	HookScore(scene manuscript.Scene) float64
}

// LexicalAnalyzer scores hooks from surface features of the scene text: action
// density, unanswered questions, a dialogue mix near 40% and a short first
// sentence.
type LexicalAnalyzer struct{}

func (LexicalAnalyzer) HookScore(scene manuscript.Scene) float64 {
	sentences := prose.Sentences(scene.Text)
	if len(sentences) == 0 {
		return 0
	}

	balance := 1 - math.Abs(scene.DialogueRatio-0.4)/0.6
	opener := 0.5
	if len(strings.Fields(sentences[0].Text)) <= 12 {
		opener = 1
	}

	score := 0.3*ActionDensity(scene.Text) +
		0.3*MysteryQuotient(scene.Text) +
		0.2*clamp01(balance) +
		0.2*opener
	return clamp01(score)
}

// StaticAnalyzer serves precomputed hook scores by scene id, for callers that
// score scenes upstream. Unknown scenes score Default.
type StaticAnalyzer struct {
	Scores  map[string]float64
	Default float64
}

func (a StaticAnalyzer) HookScore(scene manuscript.Scene) float64 {
	if s, ok := a.Scores[scene.ID]; ok {
		return clamp01(s)
	}
	return clamp01(a.Default)
}

// ActionDensity is action-verb matches per 1000 characters, capped at 1.
func ActionDensity(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	perK := float64(prose.CountActionVerbs(text)) / (float64(len(text)) / 1000)
	return math.Min(1, perK)
}

// MysteryQuotient is question marks per sentence, capped at 1.
func MysteryQuotient(text string) float64 {
	n := len(prose.Sentences(text))
	if n == 0 {
		return 0
	}
	return math.Min(1, float64(strings.Count(text, "?"))/float64(n))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
