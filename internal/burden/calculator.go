// Package burden estimates how much rewriting a candidate opening needs.
package burden

import (
	"github.com/dotcommander/opener/internal/manuscript"
)

// Config prices each finding in words of new or changed prose.
type Config struct {
	ViolationWords   int     `yaml:"violation_words" env:"VIOLATION_WORDS" validate:"required,min=1"`
	// FallbackGapWords prices a gap that carries no TargetWords of its own,
	// e.g. one supplied by a caller other than the gap analyzer.
	FallbackGapWords int     `yaml:"fallback_gap_words" env:"FALLBACK_GAP_WORDS" validate:"required,min=1"`
	MediumMultiplier float64 `yaml:"medium_multiplier" env:"MEDIUM_MULTIPLIER" validate:"gte=1"`
	HighMultiplier   float64 `yaml:"high_multiplier" env:"HIGH_MULTIPLIER" validate:"gtefield=MediumMultiplier"`
}

func DefaultConfig() Config {
	return Config{
		ViolationWords:   40,
		FallbackGapWords: 50,
		MediumMultiplier: 1.5,
		HighMultiplier:   2,
	}
}

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate converts findings into an estimated word count and normalizes it
// against the candidate's length:
//
//	totalChangePercent = estimated / (estimated + max(totalWords, 1))
//
// The result lies in [0, 1), grows with every added finding and is larger
// for shorter candidates carrying the same findings.
func (c *Calculator) Calculate(cand manuscript.OpeningCandidate, violations []manuscript.SpoilerViolation, gaps []manuscript.ContextGap) manuscript.EditBurden {
	m := manuscript.BurdenMetrics{
		SpoilerCount:         len(violations),
		GapCount:             len(gaps),
		CandidateWords:       cand.TotalWords,
		ViolationsBySeverity: map[manuscript.Severity]int{},
		ViolationsByKind:     map[manuscript.ViolationKind]int{},
		GapsByCategory:       map[manuscript.Category]int{},
		GapsByReferenceType:  map[manuscript.ReferenceType]int{},
	}

	for _, v := range violations {
		m.ViolationsBySeverity[v.Severity]++
		m.ViolationsByKind[v.Kind]++
		m.EstimatedWords += float64(c.cfg.ViolationWords) * c.multiplier(v.Severity)
	}
	for _, g := range gaps {
		m.GapsByCategory[g.Category]++
		m.GapsByReferenceType[g.Entity.ReferenceType]++
		words := g.RequiredInfo.TargetWords
		if words <= 0 {
			words = c.cfg.FallbackGapWords
		}
		m.EstimatedWords += float64(words)
	}

	length := cand.TotalWords
	if length < 1 {
		length = 1
	}
	if m.EstimatedWords > 0 {
		m.TotalChangePercent = m.EstimatedWords / (m.EstimatedWords + float64(length))
	}

	if violations == nil {
		violations = []manuscript.SpoilerViolation{}
	}
	if gaps == nil {
		gaps = []manuscript.ContextGap{}
	}
	return manuscript.EditBurden{
		CandidateID: cand.ID,
		Violations:  violations,
		Gaps:        gaps,
		Metrics:     m,
	}
}

func (c *Calculator) multiplier(s manuscript.Severity) float64 {
	switch s {
	case manuscript.SeverityHigh:
		return c.cfg.HighMultiplier
	case manuscript.SeverityMedium:
		return c.cfg.MediumMultiplier
	default:
		return 1
	}
}
