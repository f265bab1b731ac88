// Package wordfilter decides whether user-supplied event text contains
// forbidden words (the submission is blocked) or unnecessary words (the
// submission is accepted but has to be reviewed by a moderator).
//
// Matching is case-insensitive substring containment: a configured word
// matches anywhere inside the text, including inside a longer word.
// A Filter is immutable after New and safe for concurrent use.
package wordfilter

import (
	"strings"
)

// Classification is the outcome of checking text against the word lists.
type Classification int

const (
	// Clean text contains no configured word.
	Clean Classification = iota
	// Blocked text contains at least one forbidden word.
	Blocked
	// NeedsReview text contains an unnecessary word but no forbidden one.
	NeedsReview
)

// String returns the lower-case label used in logs, metrics and JSON.
func (c Classification) String() string {
	switch c {
	case Clean:
		return "clean"
	case Blocked:
		return "blocked"
	case NeedsReview:
		return "needs_review"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Field names the input a match was found in.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
)

// Verdict is a classification together with the word that caused it.
// Word and Field are empty for Clean.
type Verdict struct {
	Classification Classification `json:"classification"`
	Word           string         `json:"word,omitempty"`
	Field          Field          `json:"field,omitempty"`
}

// Filter holds the normalised forbidden and unnecessary word lists.
type Filter struct {
	forbidden []string
	flagged   []string
}

// New builds a Filter. Words are lower-cased and trimmed; empty entries
// and duplicates are dropped. The input slices are not retained.
func New(forbidden, unnecessary []string) *Filter {
	return &Filter{
		forbidden: normalize(forbidden),
		flagged:   normalize(unnecessary),
	}
}

// ContainsForbidden reports whether text contains any forbidden word.
func (f *Filter) ContainsForbidden(text string) bool {
	_, ok := firstMatch(f.forbidden, text)
	return ok
}

// ContainsFlagged reports whether text contains any unnecessary word.
func (f *Filter) ContainsFlagged(text string) bool {
	_, ok := firstMatch(f.flagged, text)
	return ok
}

// Classify checks an event name and description. Forbidden words take
// precedence over unnecessary ones.
func (f *Filter) Classify(name, description string) Classification {
	return f.Inspect(name, description).Classification
}

// Inspect is Classify that also reports the first matching word and the
// field it was found in. The name is checked before the description.
func (f *Filter) Inspect(name, description string) Verdict {
	if w, ok := firstMatch(f.forbidden, name); ok {
		return Verdict{Classification: Blocked, Word: w, Field: FieldName}
	}
	if w, ok := firstMatch(f.forbidden, description); ok {
		return Verdict{Classification: Blocked, Word: w, Field: FieldDescription}
	}
	if w, ok := firstMatch(f.flagged, name); ok {
		return Verdict{Classification: NeedsReview, Word: w, Field: FieldName}
	}
	if w, ok := firstMatch(f.flagged, description); ok {
		return Verdict{Classification: NeedsReview, Word: w, Field: FieldDescription}
	}
	return Verdict{Classification: Clean}
}

// Sizes returns the number of distinct forbidden and unnecessary words.
func (f *Filter) Sizes() (forbidden, unnecessary int) {
	return len(f.forbidden), len(f.flagged)
}

func firstMatch(words []string, text string) (string, bool) {
	if text == "" || len(words) == 0 {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}

func normalize(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = normalizeWord(w)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
