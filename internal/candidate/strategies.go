package candidate

import (
	"sort"
	"strings"

	"github.com/dotcommander/opener/internal/manuscript"
)

const (
	PatternTopHook        = "top-hook"
	PatternPOVShift       = "pov-shift"
	PatternActionDialogue = "action+dialogue"
	PatternMysteryIntro   = "mystery+intro"
	PatternLocationClash  = "location+conflict"
	PatternSkipPrologue   = "skip-prologue"
	PatternMultiIntro     = "multi-character-intro"
	PatternBaseline       = "baseline"
)

// span is a contiguous run of scene indices proposed by a strategy.
type span struct {
	start, end int
	pattern    string
}

// features are the per-scene measurements the strategies share.
type features struct {
	scenes    []manuscript.Scene
	hook      []float64
	action    []float64
	mystery   []float64
	actions   []int
	questions []int
	sentences []int
}

// strategy proposes spans and returns the cast extended by whatever it had to
// read.
type strategy func(cfg Config, f *features, c cast) ([]span, cast)

func strategies() []strategy {
	return []strategy{topHook, povShift, composites, skipPrologue, multiIntro, baseline}
}

func window(n, size int) int {
	if size < n {
		return size
	}
	return n
}

func topHook(cfg Config, f *features, c cast) ([]span, cast) {
	k := window(len(f.scenes), cfg.TopWindow)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return f.hook[idx[a]] > f.hook[idx[b]]
	})

	var out []span
	for _, i := range idx[:window(k, cfg.TopN)] {
		out = append(out, span{i, i, PatternTopHook})
	}
	return out, c
}

func povShift(cfg Config, f *features, c cast) ([]span, cast) {
	m := window(len(f.scenes), cfg.POVWindow)
	c = c.through(f.scenes, m)

	var out []span
	prev := ""
	for i := 0; i < m; i++ {
		d := c.dominant(i)
		if d == "" {
			continue
		}
		if prev != "" && d != prev {
			out = append(out, span{i, i, PatternPOVShift})
		}
		prev = d
	}
	return out, c
}

func composites(cfg Config, f *features, c cast) ([]span, cast) {
	pairs := window(len(f.scenes)-1, cfg.PairWindow)
	if pairs <= 0 {
		return nil, c
	}
	c = c.through(f.scenes, pairs+1)
	t := cfg.Composite

	var out []span
	for a := 0; a < pairs; a++ {
		b := a + 1
		da, db := f.scenes[a].DialogueRatio, f.scenes[b].DialogueRatio
		if da < t.LowDialogue && db >= t.HighDialogue {
			out = append(out, span{a, b, PatternActionDialogue})
		}
		if f.mystery[a] >= t.QuestionDensity && c.newAt(b) >= 1 {
			out = append(out, span{a, b, PatternMysteryIntro})
		}
		if f.action[a] < t.LowAction && da < t.LowDialogue && f.action[b] >= t.HighAction {
			out = append(out, span{a, b, PatternLocationClash})
		}
	}
	return out, c
}

// skipPrologue proposes the first scene of the first non-prologue chapter when
// the manuscript has a prologue. A chapter is a prologue when its id says so or
// its first scene opens with the word.
func skipPrologue(_ Config, f *features, c cast) ([]span, cast) {
	found := false
	firstMain := -1
	chapterStart := make(map[string]bool)
	for i, s := range f.scenes {
		if chapterStart[s.ChapterID] {
			continue
		}
		chapterStart[s.ChapterID] = true
		if isPrologue(s) {
			found = true
			continue
		}
		if firstMain < 0 {
			firstMain = i
		}
	}
	if !found || firstMain < 0 {
		return nil, c
	}
	return []span{{firstMain, firstMain, PatternSkipPrologue}}, c
}

func isPrologue(first manuscript.Scene) bool {
	if strings.Contains(strings.ToLower(first.ChapterID), "prologue") {
		return true
	}
	text := strings.TrimLeft(first.Text, " \t\r\n#*")
	const word = "prologue"
	if len(text) < len(word) || !strings.EqualFold(text[:len(word)], word) {
		return false
	}
	if len(text) == len(word) {
		return true
	}
	next := text[len(word)]
	return !(next >= 'a' && next <= 'z' || next >= 'A' && next <= 'Z')
}

func multiIntro(cfg Config, f *features, c cast) ([]span, cast) {
	w := window(len(f.scenes), cfg.IntroWindow)
	c = c.through(f.scenes, w)
	for i := 0; i < w; i++ {
		if c.newAt(i) >= cfg.IntroMin {
			return []span{{i, i, PatternMultiIntro}}, c
		}
	}
	return nil, c
}

func baseline(cfg Config, f *features, c cast) ([]span, cast) {
	if len(f.scenes) == 0 || f.scenes[0].WordCount < cfg.MinWords {
		return nil, c
	}
	return []span{{0, 0, PatternBaseline}}, c
}
