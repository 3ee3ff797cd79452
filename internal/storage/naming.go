package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
)

// NamingStrategy controls how report files are named under reports/.
type NamingStrategy int

const (
	// NamingRunID uses the full run id (default).
	NamingRunID NamingStrategy = iota
	// NamingTimestamp uses a timestamp and the short run id.
	NamingTimestamp
	// NamingDescriptive adds a sanitized title between the two.
	NamingDescriptive
)

// ParseNamingStrategy maps "run-id", "timestamp" and "descriptive".
func ParseNamingStrategy(s string) (NamingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "run-id", "runid":
		return NamingRunID, nil
	case "timestamp":
		return NamingTimestamp, nil
	case "descriptive":
		return NamingDescriptive, nil
	default:
		return NamingRunID, fmt.Errorf("unknown naming strategy %q", s)
	}
}

// ReportPath returns the relative path of a report file, e.g.
// reports/2025-07-16_1530_the-long-road_82f06b15.json.
func ReportPath(runID, title string, strategy NamingStrategy, now time.Time) string {
	shortID := runID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	stamp := now.Format("2006-01-02_1504")

	var name string
	switch strategy {
	case NamingTimestamp:
		name = fmt.Sprintf("%s_%s", stamp, shortID)
	case NamingDescriptive:
		name = fmt.Sprintf("%s_%s_%s", stamp, sanitizeForFilename(title, 30), shortID)
	default:
		name = runID
	}
	return path.Join("reports", name+".json")
}

// sanitizeForFilename lowercases s, keeps letters and digits, turns every
// other run of characters into one hyphen and truncates to maxLen.
func sanitizeForFilename(s string, maxLen int) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	if out == "" {
		out = "manuscript"
	}
	return out
}
