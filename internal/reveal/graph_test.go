package reveal

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dotcommander/opener/internal/manuscript"
)

func scenesFrom(texts ...string) []manuscript.Scene {
	scenes := make([]manuscript.Scene, len(texts))
	offset := 0
	for i, text := range texts {
		scenes[i] = manuscript.Scene{
			ID:          fmt.Sprintf("s%d", i+1),
			ChapterID:   "ch1",
			StartOffset: offset,
			EndOffset:   offset + len(text),
			Text:        text,
			WordCount:   len(strings.Fields(text)),
		}
		offset += len(text)
	}
	return scenes
}

func TestBuildFirstExposure(t *testing.T) {
	scenes := scenesFrom(
		"Rain fell all night.",
		"The killer was Sarah.",
		"Nobody slept.",
		"Morning came slowly.",
		"The killer was Sarah.",
	)
	g, err := NewBuilder().Build(scenes)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	r := g.Reveals[0]
	if r.FirstExposureSceneID != "s2" {
		t.Errorf("FirstExposureSceneID = %q, want s2", r.FirstExposureSceneID)
	}
	if len(g.Exposures("s2")) != 1 || len(g.Exposures("s5")) != 1 {
		t.Errorf("expected exposures in s2 and s5, got %v / %v", g.Exposures("s2"), g.Exposures("s5"))
	}
	if len(g.Exposures("s3")) != 0 {
		t.Errorf("unexpected exposure in s3")
	}
}

func TestBuildPrerequisiteEdge(t *testing.T) {
	scenes := scenesFrom("The heir was Thomas.", "The heir's mother was Ruth.")
	g, err := NewBuilder().Build(scenes)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	heir, mother := g.Reveals[0], g.Reveals[1]
	if !reflect.DeepEqual(mother.PreReqs, []string{heir.ID}) {
		t.Errorf("mother PreReqs = %v, want [%s]", mother.PreReqs, heir.ID)
	}
	if len(heir.PreReqs) != 0 {
		t.Errorf("heir PreReqs = %v, want none", heir.PreReqs)
	}
	if g.OutDegree(heir.ID) != 1 {
		t.Errorf("OutDegree(heir) = %d, want 1", g.OutDegree(heir.ID))
	}
	if len(g.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", g.Warnings)
	}
}

func TestBuildDropsCycle(t *testing.T) {
	scenes := scenesFrom("The heir was the doctor.", "The doctor was the heir.")
	g, err := NewBuilder().Build(scenes)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	r1, r2 := g.Reveals[0], g.Reveals[1]
	if !reflect.DeepEqual(r2.PreReqs, []string{r1.ID}) {
		t.Errorf("r2 PreReqs = %v, want [%s]", r2.PreReqs, r1.ID)
	}
	if len(r1.PreReqs) != 0 {
		t.Errorf("r1 PreReqs = %v, want none", r1.PreReqs)
	}
	if len(g.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", g.Warnings)
	}
	w := g.Warnings[0]
	if w.Code != "cycle_dropped" || w.From != r1.ID || w.To != r2.ID {
		t.Errorf("warning = %+v", w)
	}
	if !strings.Contains(w.Message, manuscript.ErrCycleDetected.Error()) {
		t.Errorf("warning message %q does not name the cycle error", w.Message)
	}
	if !g.IsAcyclic() {
		t.Error("graph is not acyclic")
	}
}

func TestBuildRejectsMalformed(t *testing.T) {
	_, err := NewBuilder().Build([]manuscript.Scene{{ID: "", Text: "x"}})
	if !errors.Is(err, manuscript.ErrMalformedInput) {
		t.Errorf("Build() error = %v, want ErrMalformedInput", err)
	}
}

func TestPrerequisitesTransitive(t *testing.T) {
	scenes := scenesFrom(
		"The heir was Thomas.",
		"The heir's mother was Ruth.",
		"The killer was the heir's mother.",
	)
	g, err := NewBuilder().Build(scenes)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !g.IsAcyclic() {
		t.Fatal("graph is not acyclic")
	}
	for _, r := range g.Reveals {
		for _, p := range g.Prerequisites(r.ID) {
			if p == r.ID {
				t.Errorf("%s lists itself as a prerequisite", r.ID)
			}
			if _, ok := g.Reveal(p); !ok {
				t.Errorf("dangling prerequisite %s", p)
			}
		}
	}
}

func TestMatchKey(t *testing.T) {
	g, err := NewBuilder().Build(scenesFrom("The killer was Sarah.", "Tom poisoned the captain."))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := g.MatchKey("sarah"); len(got) != 1 || got[0].Subject != "killer" {
		t.Errorf("MatchKey(sarah) = %+v", got)
	}
	if got := g.MatchKey("tom"); len(got) != 1 {
		t.Errorf("MatchKey(tom) = %+v", got)
	}
	if got := g.MatchKey("nobody"); len(got) != 0 {
		t.Errorf("MatchKey(nobody) = %+v", got)
	}
}

func TestBuildPrerequisiteFromActionReference(t *testing.T) {
	scenes := scenesFrom("Sarah is a spy.", "When Sarah returned, the doctor was Marcus.")
	g, err := NewBuilder().Build(scenes)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	var spy, doctor manuscript.Reveal
	for _, r := range g.Reveals {
		switch r.Subject {
		case "sarah":
			spy = r
		case "doctor":
			doctor = r
		}
	}
	if spy.ID == "" || doctor.ID == "" {
		t.Fatalf("missing reveals: %+v", g.Reveals)
	}
	if !reflect.DeepEqual(doctor.PreReqs, []string{spy.ID}) {
		t.Errorf("doctor PreReqs = %v, want [%s]", doctor.PreReqs, spy.ID)
	}
}
