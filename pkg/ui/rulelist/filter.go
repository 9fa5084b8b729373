package rulelist

import (
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
)

// normalize folds case and strips diacritics, so "Über" matches "uber".
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	// Casers are stateful, so each call gets its own.
	return cases.Fold().String(out)
}

type ruleNames []rule.Rule

func (rs ruleNames) String(i int) string { return normalize(rs[i].Name) }
func (rs ruleNames) Len() int            { return len(rs) }

// filterRules returns the positions of the rules whose names fuzzily match
// term, best match first. An empty term keeps every rule in its original
// order.
func filterRules(rules []rule.Rule, term string) []int {
	if term == "" {
		out := make([]int, len(rules))
		for i := range rules {
			out[i] = i
		}

		return out
	}

	matches := fuzzy.FindFrom(normalize(term), ruleNames(rules))

	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Index)
	}

	return out
}
