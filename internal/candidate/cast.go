package candidate

import (
	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/prose"
)

// cast is the running record of characters met so far. Strategies receive it
// and return an extended copy; it is never mutated in place.
type cast struct {
	first   map[string]int // canonical name -> index of the first scene naming it
	ranked  [][]prose.NameCount
	scanned int
}

func newCast() cast {
	return cast{first: map[string]int{}}
}

// through returns the cast extended to cover scenes[:n].
func (c cast) through(scenes []manuscript.Scene, n int) cast {
	if n > len(scenes) {
		n = len(scenes)
	}
	if n <= c.scanned {
		return c
	}

	next := cast{
		first:   make(map[string]int, len(c.first)),
		ranked:  make([][]prose.NameCount, c.scanned, n),
		scanned: n,
	}
	for k, v := range c.first {
		next.first[k] = v
	}
	copy(next.ranked, c.ranked)

	for i := c.scanned; i < n; i++ {
		ranked := prose.RankNames(prose.ProperNames(scenes[i].Text))
		next.ranked = append(next.ranked, ranked)
		for _, nc := range ranked {
			key := prose.Canonical(nc.Name)
			if _, ok := next.first[key]; !ok {
				next.first[key] = i
			}
		}
	}
	return next
}

// dominant is the most-mentioned name of scene i; ties go to the
// lexicographically first name. Empty when the scene names nobody.
func (c cast) dominant(i int) string {
	if i >= len(c.ranked) || len(c.ranked[i]) == 0 {
		return ""
	}
	return c.ranked[i][0].Name
}

// newAt counts characters whose first appearance is scene i.
func (c cast) newAt(i int) int {
	n := 0
	for _, at := range c.first {
		if at == i {
			n++
		}
	}
	return n
}

// introsWithin counts characters first seen inside [from, to].
func (c cast) introsWithin(from, to int) int {
	n := 0
	for _, at := range c.first {
		if at >= from && at <= to {
			n++
		}
	}
	return n
}
