package gaps

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/reveal"
)

func scenes(texts ...string) []manuscript.Scene {
	out := make([]manuscript.Scene, len(texts))
	offset := 0
	for i, text := range texts {
		out[i] = manuscript.Scene{
			ID:          "s" + string(rune('1'+i)),
			ChapterID:   "ch1",
			StartOffset: offset,
			EndOffset:   offset + len(text),
			Text:        text,
			WordCount:   len(strings.Fields(text)),
		}
		offset += len(text)
	}
	return out
}

func candidate(ids ...string) manuscript.OpeningCandidate {
	typ := manuscript.CandidateTypeFor(len(ids))
	return manuscript.OpeningCandidate{ID: string(typ) + ":" + strings.Join(ids, "+"), Type: typ, Scenes: ids}
}

type gapSummary struct {
	name    string
	refType manuscript.ReferenceType
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name   string
		texts  []string
		scenes []string
		want   []gapSummary
	}{
		{
			name:   "pronoun with nothing established",
			texts:  []string{"He walked into the room."},
			scenes: []string{"s1"},
			want:   []gapSummary{{"He", manuscript.ReferencePronoun}},
		},
		{
			name:   "earlier candidate scene establishes the cast",
			texts:  []string{"Marcus lit a cigarette.", "He walked into the room."},
			scenes: []string{"s1", "s2"},
			want:   []gapSummary{{"Marcus", manuscript.ReferenceDefinite}},
		},
		{
			name:   "scenes before the candidate do not count",
			texts:  []string{"Marcus lit a cigarette.", "He walked into the room."},
			scenes: []string{"s2"},
			want:   []gapSummary{{"He", manuscript.ReferencePronoun}},
		},
		{
			name:   "repeated reference reported once",
			texts:  []string{"Anna waited. The letter burned. The letter burned again."},
			scenes: []string{"s1"},
			want: []gapSummary{
				{"Anna", manuscript.ReferenceDefinite},
				{"The letter", manuscript.ReferenceDefinite},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := scenes(tt.texts...)
			c := candidate(tt.scenes...)
			gaps, err := NewAnalyzer(nil, nil, DefaultConfig()).Analyze(c, ss)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			var got []gapSummary
			for _, g := range gaps {
				got = append(got, gapSummary{g.Entity.Name, g.Entity.ReferenceType})
				if g.CandidateID != c.ID {
					t.Errorf("CandidateID = %q", g.CandidateID)
				}
				if g.RequiredInfo.TargetWords != 50 || len(g.RequiredInfo.Facts) == 0 {
					t.Errorf("RequiredInfo = %+v", g.RequiredInfo)
				}
				if g.Location != g.Entity.Anchor || g.Category != g.Entity.Category {
					t.Errorf("gap location/category do not match its reference: %+v", g)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Analyze() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeFactsFromGraph(t *testing.T) {
	ss := scenes("The killer is Sarah.", "Sarah's coat was wet.")
	g, err := reveal.NewBuilder().Build(ss)
	if err != nil {
		t.Fatal(err)
	}
	gaps, err := NewAnalyzer(nil, g, DefaultConfig()).Analyze(candidate("s2"), ss)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(gaps) != 1 {
		t.Fatalf("got %d gaps, want 1: %+v", len(gaps), gaps)
	}
	if want := []string{"killer is sarah"}; !reflect.DeepEqual(gaps[0].RequiredInfo.Facts, want) {
		t.Errorf("Facts = %v, want %v", gaps[0].RequiredInfo.Facts, want)
	}
	if gaps[0].Entity.ReferenceType != manuscript.ReferencePossessive {
		t.Errorf("ReferenceType = %s, want possessive", gaps[0].Entity.ReferenceType)
	}
}

func TestAnalyzeStableIDs(t *testing.T) {
	ss := scenes("He walked into the room.", "She left.")
	a := NewAnalyzer(nil, nil, DefaultConfig())

	first, _ := a.Analyze(candidate("s1"), ss)
	again, _ := a.Analyze(candidate("s1"), ss)
	other, _ := a.Analyze(candidate("s1", "s2"), ss)
	if len(first) == 0 || len(other) == 0 {
		t.Fatal("expected gaps")
	}
	if first[0].ID != again[0].ID {
		t.Errorf("ids differ across runs: %s vs %s", first[0].ID, again[0].ID)
	}
	if first[0].ID == other[0].ID {
		t.Errorf("different candidates share gap id %s", first[0].ID)
	}
}

func TestAnalyzeMalformedCandidate(t *testing.T) {
	_, err := NewAnalyzer(nil, nil, DefaultConfig()).Analyze(candidate("missing"), scenes("Hello."))
	if !manuscript.IsMalformed(err) {
		t.Errorf("Analyze() error = %v, want malformed input", err)
	}
}

func TestAnalyzeResolvesByEndOfSpan(t *testing.T) {
	tests := []struct {
		name      string
		texts     []string
		scenes    []string
		canonical string
		wantGap   bool
	}{
		{
			name:      "introduced in a later candidate scene",
			texts:     []string{"Tom waited by the gate. The letter burned in his hand.", "Anna had written a letter to Tom."},
			scenes:    []string{"s1", "s2"},
			canonical: "letter",
			wantGap:   false,
		},
		{
			name:      "introduced later in the same scene",
			texts:     []string{"Tom waited. The letter burned. Anna had written a letter."},
			scenes:    []string{"s1"},
			canonical: "letter",
			wantGap:   false,
		},
		{
			name:      "introducing scene outside the candidate",
			texts:     []string{"Tom waited by the gate. The letter burned in his hand.", "Anna had written a letter to Tom."},
			scenes:    []string{"s1"},
			canonical: "letter",
			wantGap:   true,
		},
		{
			name:      "repeating a name does not introduce it",
			texts:     []string{"Tom waited by the gate. The letter burned in his hand.", "Anna had written a letter to Tom."},
			scenes:    []string{"s1", "s2"},
			canonical: "tom",
			wantGap:   true,
		},
		{
			name:      "pronouns are not resolved by later introductions",
			texts:     []string{"He waited.", "A man waited by the gate."},
			scenes:    []string{"s1", "s2"},
			canonical: "he",
			wantGap:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gaps, err := NewAnalyzer(nil, nil, DefaultConfig()).Analyze(candidate(tt.scenes...), scenes(tt.texts...))
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			found := false
			for _, g := range gaps {
				if g.Entity.Canonical == tt.canonical {
					found = true
				}
			}
			if found != tt.wantGap {
				t.Errorf("gap for %q present = %v, want %v; gaps = %+v", tt.canonical, found, tt.wantGap, gaps)
			}
		})
	}
}
