package wordfilter

import (
	"fmt"
	"strings"
)

// IssueKind classifies a problem found in a pair of word lists.
type IssueKind string

const (
	IssueEmpty       IssueKind = "empty"
	IssueDuplicate   IssueKind = "duplicate"
	IssueInBothLists IssueKind = "in_both_lists"
	// IssueShadowed marks an unnecessary word that contains a forbidden
	// word: any text matching it is blocked, so it never triggers review.
	IssueShadowed IssueKind = "shadowed"
)

// Issue is a single lint finding.
type Issue struct {
	Kind IssueKind
	List string
	Word string
	By   string
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueEmpty:
		return fmt.Sprintf("%s: empty entry", i.List)
	case IssueDuplicate:
		return fmt.Sprintf("%s: %q listed more than once", i.List, i.Word)
	case IssueInBothLists:
		return fmt.Sprintf("%q is both forbidden and unnecessary", i.Word)
	case IssueShadowed:
		return fmt.Sprintf("unnecessary word %q contains forbidden word %q and is always blocked", i.Word, i.By)
	default:
		return fmt.Sprintf("%s: %s %q", i.List, i.Kind, i.Word)
	}
}

// Lint reports entries that would be silently dropped or could never
// produce their intended classification.
func Lint(forbidden, unnecessary []string) []Issue {
	var issues []Issue
	issues = append(issues, lintList("forbidden", forbidden)...)
	issues = append(issues, lintList("unnecessary", unnecessary)...)

	blocked := normalize(forbidden)
	for _, w := range normalize(unnecessary) {
		for _, b := range blocked {
			if w == b {
				issues = append(issues, Issue{Kind: IssueInBothLists, List: "unnecessary", Word: w})
				break
			}
			if strings.Contains(w, b) {
				issues = append(issues, Issue{Kind: IssueShadowed, List: "unnecessary", Word: w, By: b})
				break
			}
		}
	}
	return issues
}

func lintList(list string, words []string) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(words))
	for _, raw := range words {
		w := normalizeWord(raw)
		if w == "" {
			issues = append(issues, Issue{Kind: IssueEmpty, List: list})
			continue
		}
		if seen[w] {
			issues = append(issues, Issue{Kind: IssueDuplicate, List: list, Word: w})
			continue
		}
		seen[w] = true
	}
	return issues
}
