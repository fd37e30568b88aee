package planner

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// labelMatcher finds label keywords inside free-form intent text using
// an Aho-Corasick automaton over label surface forms, so "find
// suppliers of leather" selects the Supplier label in one pass.
type labelMatcher struct {
	ac            ahocorasick.AhoCorasick
	patternLabels []string // pattern index -> label
}

// newLabelMatcher compiles an automaton over each label plus its plural
// surface forms. Labels are an open set derived from the live schema,
// so the automaton is rebuilt per plan execution; at schema scale this
// is negligible.
func newLabelMatcher(labels []string) *labelMatcher {
	var patterns []string
	var patternLabels []string
	for _, label := range labels {
		for _, surface := range surfaceForms(label) {
			patterns = append(patterns, surface)
			patternLabels = append(patternLabels, label)
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &labelMatcher{ac: builder.Build(patterns), patternLabels: patternLabels}
}

// surfaceForms returns the lowercased label and its regular plurals
// ("supplier" -> "suppliers", "factory" -> "factories").
func surfaceForms(label string) []string {
	lower := strings.ToLower(label)
	forms := []string{lower, lower + "s"}
	if strings.HasSuffix(lower, "y") {
		forms = append(forms, lower[:len(lower)-1]+"ies")
	}
	return forms
}

// Match returns the set of labels whose keyword occurs in the text.
func (m *labelMatcher) Match(text string) map[string]bool {
	selected := make(map[string]bool)
	if text == "" {
		return selected
	}
	for _, hit := range m.ac.FindAll(strings.ToLower(text)) {
		selected[m.patternLabels[hit.Pattern()]] = true
	}
	return selected
}
