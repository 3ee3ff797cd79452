// Package spoiler finds facts a candidate opening references before its reader
// could have met them.
package spoiler

import (
	"fmt"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
	"github.com/dotcommander/opener/internal/reveal"
)

// Weights tune the severity score:
//
//	score = Base + OutDegreeWeight*outDegree + DistanceWeight*min(distance, MaxDistance)
//
// where distance is the scene-index gap between the reference and the fact's
// first exposure.
type Weights struct {
	Base            float64 `yaml:"base" env:"BASE" validate:"gte=0"`
	OutDegreeWeight float64 `yaml:"out_degree_weight" env:"OUT_DEGREE_WEIGHT" validate:"gte=0"`
	DistanceWeight  float64 `yaml:"distance_weight" env:"DISTANCE_WEIGHT" validate:"gte=0"`
	MaxDistance     int     `yaml:"max_distance" env:"MAX_DISTANCE" validate:"gte=0"`
	MediumAt        float64 `yaml:"medium_at" env:"MEDIUM_AT" validate:"gt=0"`
	HighAt          float64 `yaml:"high_at" env:"HIGH_AT" validate:"gtefield=MediumAt"`
}

func DefaultWeights() Weights {
	return Weights{
		Base:            1.0,
		OutDegreeWeight: 0.5,
		DistanceWeight:  0.1,
		MaxDistance:     20,
		MediumAt:        1.5,
		HighAt:          2.5,
	}
}

// Score applies the weights.
func (w Weights) Score(outDegree, distance int) float64 {
	if distance < 0 {
		distance = -distance
	}
	if distance > w.MaxDistance {
		distance = w.MaxDistance
	}
	return w.Base + w.OutDegreeWeight*float64(outDegree) + w.DistanceWeight*float64(distance)
}

// Label maps a score to a severity band.
func (w Weights) Label(score float64) manuscript.Severity {
	switch {
	case score >= w.HighAt:
		return manuscript.SeverityHigh
	case score >= w.MediumAt:
		return manuscript.SeverityMedium
	default:
		return manuscript.SeverityLow
	}
}

// Detector reads the shared graph only and is safe for concurrent use.
type Detector struct {
	graph   *reveal.Graph
	weights Weights
}

func NewDetector(graph *reveal.Graph, weights Weights) *Detector {
	return &Detector{graph: graph, weights: weights}
}

// Detect walks the candidate's scenes in manuscript order. Facts exposed in a
// sentence count as seen before that sentence's references are checked. A
// referenced fact, or any of its transitive prerequisites, that is not yet seen
// becomes a violation; each fact is reported once, at its earliest reference.
func (d *Detector) Detect(c manuscript.OpeningCandidate, scenes []manuscript.Scene) ([]manuscript.SpoilerViolation, error) {
	span := manuscript.Span(c, scenes)
	if len(span) == 0 || len(span) != len(c.Scenes) {
		return nil, manuscript.NewValidationError("candidate.scenes", "candidate scenes not found in manuscript", c.Scenes)
	}
	start, ok := d.graph.SceneIndex(span[0].ID)
	if !ok {
		return nil, manuscript.NewValidationError("candidate.scenes", "scene missing from reveal graph", span[0].ID)
	}

	seen := make(map[string]struct{})
	reported := make(map[string]struct{})
	out := []manuscript.SpoilerViolation{}

	for _, scene := range span {
		at, _ := d.graph.SceneIndex(scene.ID)
		exposures := d.graph.Exposures(scene.ID)

		for _, s := range prose.Sentences(scene.Text) {
			for _, e := range exposures {
				if e.Offset >= s.Start && e.Offset < s.End {
					seen[e.RevealID] = struct{}{}
				}
			}

			lower := prose.Lower(prose.Normalize(s.Text))
			for _, r := range d.graph.Reveals {
				if !references(lower, r) {
					continue
				}
				for _, id := range append([]string{r.ID}, d.graph.Prerequisites(r.ID)...) {
					if _, ok := seen[id]; ok {
						continue
					}
					if _, ok := reported[id]; ok {
						continue
					}
					reported[id] = struct{}{}
					out = append(out, d.violation(c.ID, id, start, at, scene.ID, s))
				}
			}
		}
	}
	return out, nil
}

func references(lowerSentence string, r manuscript.Reveal) bool {
	for _, a := range r.Anchors {
		if prose.ContainsWord(lowerSentence, a) {
			return true
		}
	}
	return false
}

func (d *Detector) violation(candidateID, revealID string, start, at int, sceneID string, s prose.Sentence) manuscript.SpoilerViolation {
	r, _ := d.graph.Reveal(revealID)
	first, _ := d.graph.SceneIndex(r.FirstExposureSceneID)

	kind := manuscript.ViolationForward
	fix := fmt.Sprintf("Reveal %q before this point, or hold the reference until scene %s.", r.Description, r.FirstExposureSceneID)
	if first < start {
		kind = manuscript.ViolationSkipped
		fix = fmt.Sprintf("Carry %q forward from scene %s into the new opening, or cut the reference.", r.Description, r.FirstExposureSceneID)
	}

	score := d.weights.Score(d.graph.OutDegree(revealID), at-first)
	return manuscript.SpoilerViolation{
		ID:          candidateID + "::" + revealID,
		CandidateID: candidateID,
		RevealID:    revealID,
		Kind:        kind,
		Location: manuscript.SpoilerLocation{
			Anchor:   manuscript.Anchor{SceneID: sceneID, Offset: s.Start, Length: s.End - s.Start},
			Sentence: s.Text,
		},
		FirstExposureSceneID: r.FirstExposureSceneID,
		Severity:             d.weights.Label(score),
		SeverityScore:        score,
		SuggestedFix:         fix,
	}
}
