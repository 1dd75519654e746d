package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

type notFoundError struct {
	kind        string
	ref         string
	suggestions []string
}

func (e notFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.kind, e.ref)
	if len(e.suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.suggestions), ", "))
	}
	return msg
}

func errNotFound(kind, ref string, candidates []string) error {
	return notFoundError{kind: kind, ref: ref, suggestions: suggest(ref, candidates)}
}

type ambiguousError struct {
	kind string
	ref  string
	n    int
}

func (e ambiguousError) Error() string {
	return fmt.Sprintf("%s name %q matches %d records; use an id or <scheme>/<model>", e.kind, e.ref, e.n)
}

const (
	minSuggestionScore = 0.5
	maxSuggestions     = 3
)

// suggest returns up to three candidates close to ref, best first.
func suggest(ref string, candidates []string) []string {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil
	}
	type scored struct {
		name  string
		score float32
	}
	var hits []scored
	seen := map[string]bool{}
	for _, c := range candidates {
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		score, err := edlib.StringsSimilarity(ref, key, edlib.Levenshtein)
		if err != nil || score < minSuggestionScore {
			continue
		}
		hits = append(hits, scored{name: c, score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > maxSuggestions {
		hits = hits[:maxSuggestions]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

func quoteAll(xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprintf("%q", x)
	}
	return out
}
