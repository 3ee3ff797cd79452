package manuscript

import "fmt"

// ValidateScenes performs the basic sanity checks the analytical components
// rely on: a non-empty list, unique ids and EndOffset >= StartOffset.
// Manuscript ordering is assumed, not re-derived.
func ValidateScenes(scenes []Scene) error {
	if len(scenes) == 0 {
		return NewValidationError("scenes", "scene list is empty", nil)
	}

	seen := make(map[string]struct{}, len(scenes))
	for i, s := range scenes {
		if s.ID == "" {
			return NewValidationError(fmt.Sprintf("scenes[%d].id", i), "scene id is empty", nil)
		}
		if _, dup := seen[s.ID]; dup {
			return NewValidationError(fmt.Sprintf("scenes[%d].id", i), "duplicate scene id", s.ID)
		}
		seen[s.ID] = struct{}{}

		if s.EndOffset < s.StartOffset {
			return NewValidationError(fmt.Sprintf("scenes[%d].endOffset", i),
				fmt.Sprintf("end offset precedes start offset %d", s.StartOffset), s.EndOffset)
		}
		if s.WordCount < 0 {
			return NewValidationError(fmt.Sprintf("scenes[%d].wordCount", i), "word count is negative", s.WordCount)
		}
		if s.DialogueRatio < 0 || s.DialogueRatio > 1 {
			return NewValidationError(fmt.Sprintf("scenes[%d].dialogueRatio", i), "dialogue ratio outside [0,1]", s.DialogueRatio)
		}
	}
	return nil
}

// Index maps scene ids to their manuscript position.
func Index(scenes []Scene) map[string]int {
	idx := make(map[string]int, len(scenes))
	for i, s := range scenes {
		idx[s.ID] = i
	}
	return idx
}

// Span returns the scenes a candidate covers, in manuscript order. Unknown ids
// are skipped.
func Span(c OpeningCandidate, scenes []Scene) []Scene {
	idx := Index(scenes)
	out := make([]Scene, 0, len(c.Scenes))
	for _, id := range c.Scenes {
		if i, ok := idx[id]; ok {
			out = append(out, scenes[i])
		}
	}
	return out
}
