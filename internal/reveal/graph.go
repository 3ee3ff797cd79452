package reveal

import (
	"github.com/dotcommander/opener/internal/manuscript"
)

// Exposure records one scene sentence where a reveal's pattern fires.
type Exposure struct {
	RevealID string `json:"revealId"`
	SceneID  string `json:"sceneId"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
}

// GraphWarning is a non-fatal data-quality finding raised while building.
type GraphWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

// Graph is the reveal dependency DAG for one manuscript. It is read-only once
// built and safe to share between goroutines.
type Graph struct {
	Reveals  []manuscript.Reveal `json:"reveals"`
	Warnings []GraphWarning      `json:"warnings,omitempty"`

	index      map[string]int
	sceneIndex map[string]int
	exposures  map[string][]Exposure
	dependents map[string]int
}

func newGraph(scenes []manuscript.Scene) *Graph {
	return &Graph{
		Reveals:    []manuscript.Reveal{},
		index:      make(map[string]int),
		sceneIndex: manuscript.Index(scenes),
		exposures:  make(map[string][]Exposure),
		dependents: make(map[string]int),
	}
}

// Len returns the number of reveals.
func (g *Graph) Len() int {
	return len(g.Reveals)
}

// Reveal looks up a reveal by id.
func (g *Graph) Reveal(id string) (manuscript.Reveal, bool) {
	i, ok := g.index[id]
	if !ok {
		return manuscript.Reveal{}, false
	}
	return g.Reveals[i], true
}

// SceneIndex returns the manuscript position of a scene.
func (g *Graph) SceneIndex(sceneID string) (int, bool) {
	i, ok := g.sceneIndex[sceneID]
	return i, ok
}

// Exposures returns the reveal exposures inside a scene, in text order.
func (g *Graph) Exposures(sceneID string) []Exposure {
	return g.exposures[sceneID]
}

// OutDegree counts the reveals that list id as a prerequisite.
func (g *Graph) OutDegree(id string) int {
	return g.dependents[id]
}

// Prerequisites returns the transitive prerequisites of id in depth-first,
// declaration order, without id itself.
func (g *Graph) Prerequisites(id string) []string {
	var out []string
	visited := map[string]struct{}{id: {}}
	var walk func(string)
	walk = func(cur string) {
		r, ok := g.Reveal(cur)
		if !ok {
			return
		}
		for _, p := range r.PreReqs {
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			out = append(out, p)
			walk(p)
		}
	}
	walk(id)
	return out
}

// MatchKey returns reveals whose subject or anchors equal key, in discovery
// order.
func (g *Graph) MatchKey(key string) []manuscript.Reveal {
	var out []manuscript.Reveal
	for _, r := range g.Reveals {
		if r.Subject == key {
			out = append(out, r)
			continue
		}
		for _, a := range r.Anchors {
			if a == key {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// reaches reports whether to is reachable from from along prerequisite edges.
func (g *Graph) reaches(from, to string) bool {
	if from == to {
		return true
	}
	visited := make(map[string]struct{})
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		if r, ok := g.Reveal(cur); ok {
			stack = append(stack, r.PreReqs...)
		}
	}
	return false
}

func (g *Graph) hasEdge(from, to string) bool {
	r, ok := g.Reveal(from)
	if !ok {
		return false
	}
	for _, p := range r.PreReqs {
		if p == to {
			return true
		}
	}
	return false
}

func (g *Graph) addEdge(from, to string) {
	i := g.index[from]
	g.Reveals[i].PreReqs = append(g.Reveals[i].PreReqs, to)
	g.dependents[to]++
}

// IsAcyclic verifies the DAG invariant with a colouring DFS.
func (g *Graph) IsAcyclic() bool {
	const (
		white = iota
		grey
		black
	)
	colour := make(map[string]int, len(g.Reveals))
	var visit func(string) bool
	visit = func(id string) bool {
		switch colour[id] {
		case grey:
			return false
		case black:
			return true
		}
		colour[id] = grey
		r, _ := g.Reveal(id)
		for _, p := range r.PreReqs {
			if !visit(p) {
				return false
			}
		}
		colour[id] = black
		return true
	}
	for _, r := range g.Reveals {
		if !visit(r.ID) {
			return false
		}
	}
	return true
}
