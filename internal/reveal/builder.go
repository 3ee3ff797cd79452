package reveal

import (
	"fmt"
	"log/slog"

	"github.com/dotcommander/opener/internal/entity"
	"github.com/dotcommander/opener/internal/manuscript"
)

// Builder aggregates per-scene facts into one Graph.
type Builder struct {
	detector *entity.Detector
	logger   *slog.Logger
}

type BuilderOption func(*Builder)

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithDetector overrides the reference detector used for prerequisite links.
func WithDetector(d *entity.Detector) BuilderOption {
	return func(b *Builder) {
		if d != nil {
			b.detector = d
		}
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		detector: entity.NewDetector(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build makes one pass over scenes in manuscript order. The first scene whose
// extraction yields a description owns the reveal; later occurrences only add
// exposures. Fact A requires fact B when B's subject is among the unresolved
// references of A's originating sentence. Edges that would close a cycle are
// dropped and reported as warnings.
func (b *Builder) Build(scenes []manuscript.Scene) (*Graph, error) {
	if err := manuscript.ValidateScenes(scenes); err != nil {
		return nil, fmt.Errorf("building reveal graph: %w", err)
	}

	g := newGraph(scenes)
	refKeys := make(map[string]map[string]struct{})

	for _, scene := range scenes {
		for _, f := range Extract(scene) {
			g.exposures[scene.ID] = append(g.exposures[scene.ID], Exposure{
				RevealID: f.ID,
				SceneID:  scene.ID,
				Offset:   f.Offset,
				Length:   f.Length,
			})
			if _, exists := g.index[f.ID]; exists {
				continue
			}

			keys := make(map[string]struct{})
			for _, ref := range b.detector.References(scene.ID, f.Sentence.Text, nil) {
				if k := entity.Subject(ref); k != f.Subject {
					keys[k] = struct{}{}
				}
			}
			refKeys[f.ID] = keys

			g.index[f.ID] = len(g.Reveals)
			g.Reveals = append(g.Reveals, manuscript.Reveal{
				ID:                   f.ID,
				Description:          f.Description,
				FirstExposureSceneID: scene.ID,
				PreReqs:              []string{},
				Subject:              f.Subject,
				Anchors:              f.Anchors,
			})
			b.link(g, f.ID, refKeys)
		}
	}

	b.logger.Debug("Reveal graph built",
		"reveal_count", g.Len(),
		"scene_count", len(scenes),
		"warning_count", len(g.Warnings),
	)
	return g, nil
}

// link connects a freshly created node to the nodes discovered before it:
// first its own prerequisites, then earlier facts that presuppose it.
func (b *Builder) link(g *Graph, id string, refKeys map[string]map[string]struct{}) {
	node, _ := g.Reveal(id)
	last := g.Len() - 1

	for _, other := range g.Reveals[:last] {
		if _, ok := refKeys[id][other.Subject]; ok {
			b.tryEdge(g, id, other.ID)
		}
	}
	for _, other := range g.Reveals[:last] {
		if _, ok := refKeys[other.ID][node.Subject]; ok {
			b.tryEdge(g, other.ID, id)
		}
	}
}

func (b *Builder) tryEdge(g *Graph, from, to string) {
	if g.hasEdge(from, to) {
		return
	}
	if g.reaches(to, from) {
		w := GraphWarning{
			Code:    "cycle_dropped",
			Message: fmt.Sprintf("%v: dropped prerequisite %s -> %s", manuscript.ErrCycleDetected, from, to),
			From:    from,
			To:      to,
		}
		g.Warnings = append(g.Warnings, w)
		b.logger.Warn("Dropped reveal prerequisite that would create a cycle",
			"from", from,
			"to", to,
		)
		return
	}
	g.addEdge(from, to)
}
