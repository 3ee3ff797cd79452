package prose

import (
	"strings"
	"testing"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminators",
			text: "He ran. She stopped! Why? ",
			want: []string{"He ran.", "She stopped!", "Why?"},
		},
		{
			name: "closing quote stays with sentence",
			text: `"Run!" she said. Then silence.`,
			want: []string{`"Run!"`, "she said.", "Then silence."},
		},
		{
			name: "line breaks split",
			text: "First line\nSecond line",
			want: []string{"First line", "Second line"},
		},
		{
			name: "decimal does not split",
			text: "It cost 3.50 dollars.",
			want: []string{"It cost 3.50 dollars."},
		},
		{name: "empty", text: "   \n  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Sentences(%q) = %d sentences %+v, want %d", tt.text, len(got), got, len(tt.want))
			}
			for i, s := range got {
				if s.Text != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, s.Text, tt.want[i])
				}
				if tt.text[s.Start:s.End] != s.Text {
					t.Errorf("sentence %d offsets [%d,%d) do not match text %q", i, s.Start, s.End, s.Text)
				}
			}
		})
	}
}

func TestSentencesBoundsRunawayInput(t *testing.T) {
	text := strings.Repeat("a", MaxSentenceBytes*3)
	for _, s := range Sentences(text) {
		if s.End-s.Start > MaxSentenceBytes {
			t.Fatalf("sentence of %d bytes exceeds bound", s.End-s.Start)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"The  Killer":          "killer",
		"a Stranger":           "stranger",
		"Sarah’s":              "sarah's",
		"the":                  "the",
		"  Detective  Harris ": "detective harris",
	}
	for in, want := range tests {
		if got := Canonical(in); got != want {
			t.Errorf("Canonical(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContentHashStable(t *testing.T) {
	a := ContentHash("killer is sarah")
	b := ContentHash("killer is sarah")
	if a != b || len(a) != 16 {
		t.Fatalf("ContentHash not stable: %q %q", a, b)
	}
	if a == ContentHash("killer is tom") {
		t.Error("distinct descriptions share a hash")
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		hay, phrase string
		want        bool
	}{
		{"sarah smiled", "sarah", true},
		{"sarah's secret", "sarah", true},
		{"sarahs", "sarah", false},
		{"the detective harris arrived", "detective harris", true},
		{"anything", "", false},
	}
	for _, tt := range tests {
		if got := ContainsWord(tt.hay, tt.phrase); got != tt.want {
			t.Errorf("ContainsWord(%q, %q) = %v, want %v", tt.hay, tt.phrase, got, tt.want)
		}
	}
}

func TestRankNamesTieBreak(t *testing.T) {
	mentions := ProperNames("Tom met Anna. Anna waved at Tom. Zed watched.")
	ranked := RankNames(mentions)
	if len(ranked) != 3 {
		t.Fatalf("RankNames() = %+v", ranked)
	}
	if ranked[0].Name != "Anna" || ranked[1].Name != "Tom" || ranked[2].Name != "Zed" {
		t.Errorf("unexpected order %+v", ranked)
	}
}

func TestProperNamesSkipsStarters(t *testing.T) {
	got := DistinctNames("The door opened. When Sarah entered, Marcus didn't look up. Don't go.")
	want := []string{"Sarah", "Marcus"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("DistinctNames() = %v, want %v", got, want)
	}
}

func TestCountActionVerbs(t *testing.T) {
	if n := CountActionVerbs("He ran. She grabbed the knife and fled."); n != 3 {
		t.Errorf("CountActionVerbs() = %d, want 3", n)
	}
}
