package analysis

import (
	"fmt"
	"strings"

	"github.com/dotcommander/opener/internal/config"
	"github.com/dotcommander/opener/internal/manuscript"
)

type Verdict string

const (
	VerdictAccept Verdict = "accept"
	VerdictRevise Verdict = "revise"
	VerdictReject Verdict = "reject"
)

type Decision struct {
	Verdict    Verdict  `json:"verdict"`
	WhyItWorks []string `json:"whyItWorks"`
	RiskNotes  string   `json:"riskNotes,omitempty"`
}

// OpeningAnalysis is the one-line summary of a candidate.
type OpeningAnalysis struct {
	ID                string  `json:"id"`
	CandidateID       string  `json:"candidateId"`
	Confidence        float64 `json:"confidence"`
	SpoilerCount      int     `json:"spoilerCount"`
	EditBurdenPercent float64 `json:"editBurdenPercent"`
	Rationale         string  `json:"rationale"`
}

// Decide bands the burden: reject at or above RejectAbove, accept at or below
// AcceptBelow when no violation is high severity, revise otherwise.
func Decide(th config.Decision, c manuscript.OpeningCandidate, b manuscript.EditBurden) Decision {
	p := b.Metrics.TotalChangePercent
	high := b.Metrics.ViolationsBySeverity[manuscript.SeverityHigh]

	verdict := VerdictRevise
	switch {
	case p >= th.RejectAbove:
		verdict = VerdictReject
	case p <= th.AcceptBelow && high == 0:
		verdict = VerdictAccept
	}

	return Decision{
		Verdict:    verdict,
		WhyItWorks: strengths(c),
		RiskNotes:  risks(b),
	}
}

// Confidence discounts the hook score by the share of text needing revision.
func Confidence(c manuscript.OpeningCandidate, b manuscript.EditBurden) float64 {
	return c.HookScore * (1 - b.Metrics.TotalChangePercent)
}

func strengths(c manuscript.OpeningCandidate) []string {
	var out []string
	if c.HookScore >= 0.75 {
		out = append(out, fmt.Sprintf("Strong hook (%.2f)", c.HookScore))
	}
	if c.ActionDensity >= 0.5 {
		out = append(out, "Opens in motion")
	}
	if c.MysteryQuotient >= 0.3 {
		out = append(out, "Raises questions early")
	}
	if c.CharacterIntros > 0 {
		out = append(out, fmt.Sprintf("Introduces %d new character(s)", c.CharacterIntros))
	}
	if c.DialogueRatio >= 0.2 && c.DialogueRatio <= 0.6 {
		out = append(out, "Balances dialogue and narration")
	}
	if c.Pattern != "" {
		out = append(out, fmt.Sprintf("Fits the %s pattern", c.Pattern))
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func risks(b manuscript.EditBurden) string {
	m := b.Metrics
	if m.SpoilerCount == 0 && m.GapCount == 0 {
		return ""
	}
	var parts []string
	if m.SpoilerCount > 0 {
		parts = append(parts, fmt.Sprintf("%d spoiler(s), %d high severity", m.SpoilerCount, m.ViolationsBySeverity[manuscript.SeverityHigh]))
	}
	if m.GapCount > 0 {
		parts = append(parts, fmt.Sprintf("%d context gap(s)", m.GapCount))
	}
	return fmt.Sprintf("%s; roughly %.0f words of revision.", strings.Join(parts, ", "), m.EstimatedWords)
}

func rationale(c manuscript.OpeningCandidate, b manuscript.EditBurden, d Decision) string {
	return fmt.Sprintf("%s: %s opening at %s with hook %.2f and %.0f%% edit burden.",
		d.Verdict, c.Type, strings.Join(c.Scenes, ", "), c.HookScore, 100*b.Metrics.TotalChangePercent)
}
