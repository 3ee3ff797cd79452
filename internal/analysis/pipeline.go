// Package analysis runs the full opening analysis: reveal graph, candidate
// generation, and per-candidate spoiler, gap and burden scoring.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dotcommander/opener/internal/burden"
	"github.com/dotcommander/opener/internal/candidate"
	"github.com/dotcommander/opener/internal/config"
	"github.com/dotcommander/opener/internal/entity"
	"github.com/dotcommander/opener/internal/gaps"
	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/pool"
	"github.com/dotcommander/opener/internal/reveal"
	"github.com/dotcommander/opener/internal/spoiler"
)

// NoOpeningMessage is reported instead of an error when nothing qualifies.
const NoOpeningMessage = "manuscript too short / no qualifying opening"

type SpoilerResult struct {
	Violations []manuscript.SpoilerViolation `json:"violations"`
}

type ContextAnalysis struct {
	Gaps []manuscript.ContextGap `json:"gaps"`
}

// Assessment is everything computed for one candidate.
type Assessment struct {
	Candidate manuscript.OpeningCandidate `json:"candidate"`
	Analysis  OpeningAnalysis             `json:"analysis"`
	Spoilers  SpoilerResult               `json:"spoilerResult"`
	Context   ContextAnalysis             `json:"contextAnalysis"`
	Burden    manuscript.EditBurden       `json:"editBurden"`
	Decision  Decision                    `json:"decision"`
}

type Report struct {
	RunID       string                        `json:"runId"`
	Title       string                        `json:"title,omitempty"`
	GeneratedAt time.Time                     `json:"generatedAt"`
	SceneCount  int                           `json:"sceneCount"`
	TotalWords  int                           `json:"totalWords"`
	Message     string                        `json:"message,omitempty"`
	Recommended string                        `json:"recommended,omitempty"`
	RevealGraph *reveal.Graph                 `json:"revealGraph,omitempty"`
	Candidates  []manuscript.OpeningCandidate `json:"candidates"`
	Assessments []Assessment                  `json:"assessments"`
}

type Analyzer struct {
	cfg      config.Config
	scenes   candidate.SceneAnalyzer
	logger   *slog.Logger
	now      func() time.Time
	detector *entity.Detector
}

type Option func(*Analyzer)

func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSceneAnalyzer replaces the lexical hook scorer.
func WithSceneAnalyzer(s candidate.SceneAnalyzer) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.scenes = s
		}
	}
}

func New(cfg config.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:      cfg,
		scenes:   candidate.LexicalAnalyzer{},
		logger:   slog.Default(),
		now:      time.Now,
		detector: entity.NewDetector(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// candidateItem adapts a candidate to the worker pool.
type candidateItem struct {
	manuscript.OpeningCandidate
}

func (c candidateItem) ID() string { return c.OpeningCandidate.ID }

// Run analyzes scenes. An empty manuscript, or one with no qualifying
// candidate, yields a report carrying NoOpeningMessage; malformed scenes are an
// error.
func (a *Analyzer) Run(ctx context.Context, title string, scenes []manuscript.Scene) (*Report, error) {
	report := &Report{
		RunID:       uuid.NewString(),
		Title:       title,
		GeneratedAt: a.now().UTC(),
		SceneCount:  len(scenes),
		Candidates:  []manuscript.OpeningCandidate{},
		Assessments: []Assessment{},
	}
	for _, s := range scenes {
		report.TotalWords += s.WordCount
	}
	logger := a.logger.With("run_id", report.RunID)

	if len(scenes) == 0 {
		report.Message = NoOpeningMessage
		logger.Info("Nothing to analyze", "scene_count", 0)
		return report, nil
	}
	if err := manuscript.ValidateScenes(scenes); err != nil {
		return nil, fmt.Errorf("analyzing manuscript: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if a.cfg.Limits.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Limits.TotalTimeout)
		defer cancel()
	}

	start := time.Now()
	graph, err := reveal.NewBuilder(reveal.WithLogger(logger), reveal.WithDetector(a.detector)).Build(scenes)
	if err != nil {
		return nil, fmt.Errorf("analyzing manuscript: %w", err)
	}
	report.RevealGraph = graph
	logger.Info("Reveal graph built",
		"reveal_count", graph.Len(),
		"warning_count", len(graph.Warnings),
	)

	cands := candidate.NewGenerator(a.cfg.Candidate, a.scenes, candidate.WithLogger(logger)).Generate(scenes)
	report.Candidates = cands
	if len(cands) == 0 {
		report.Message = NoOpeningMessage
		logger.Info("No qualifying opening", "scene_count", len(scenes))
		return report, nil
	}

	spoilers := spoiler.NewDetector(graph, a.cfg.Spoiler)
	gapAnalyzer := gaps.NewAnalyzer(a.detector, graph, a.cfg.Gaps)
	calc := burden.NewCalculator(a.cfg.Burden)

	progress := &rate.Sometimes{First: 1, Interval: a.cfg.Limits.ProgressInterval}
	p := pool.NewWorkerPool[candidateItem, Assessment](
		pool.WithWorkers(a.cfg.Limits.Workers),
		pool.WithTimeout(a.cfg.Limits.CandidateTimeout),
		pool.WithLogger(logger),
		pool.WithProgress(func(done, total int) {
			progress.Do(func() {
				logger.Info("Scoring candidates", "done", done, "total", total)
			})
		}),
	)

	items := make([]candidateItem, len(cands))
	for i, c := range cands {
		items[i] = candidateItem{c}
	}

	assessments, err := p.ProcessWithErrGroup(ctx, items, func(ctx context.Context, item candidateItem) (Assessment, error) {
		if err := ctx.Err(); err != nil {
			return Assessment{}, err
		}
		c := item.OpeningCandidate

		violations, err := spoilers.Detect(c, scenes)
		if err != nil {
			return Assessment{}, fmt.Errorf("detecting spoilers: %w", err)
		}
		found, err := gapAnalyzer.Analyze(c, scenes)
		if err != nil {
			return Assessment{}, fmt.Errorf("analyzing context gaps: %w", err)
		}
		b := calc.Calculate(c, violations, found)
		d := Decide(a.cfg.Decision, c, b)

		return Assessment{
			Candidate: c,
			Analysis: OpeningAnalysis{
				ID:                uuid.NewSHA1(uuid.NameSpaceOID, []byte(report.RunID+"|"+c.ID)).String(),
				CandidateID:       c.ID,
				Confidence:        Confidence(c, b),
				SpoilerCount:      len(violations),
				EditBurdenPercent: 100 * b.Metrics.TotalChangePercent,
				Rationale:         rationale(c, b, d),
			},
			Spoilers: SpoilerResult{Violations: violations},
			Context:  ContextAnalysis{Gaps: found},
			Burden:   b,
			Decision: d,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}

	report.Assessments = assessments
	report.Recommended = recommend(assessments)

	logger.Info("Analysis complete",
		"candidate_count", len(cands),
		"recommended", report.Recommended,
		"duration", time.Since(start),
	)
	return report, nil
}

// recommend picks the most confident non-rejected candidate; ties keep rank
// order.
func recommend(as []Assessment) string {
	best := -1
	for i, a := range as {
		if a.Decision.Verdict == VerdictReject {
			continue
		}
		if best < 0 || a.Analysis.Confidence > as[best].Analysis.Confidence {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return as[best].Candidate.ID
}
