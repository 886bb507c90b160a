// Package brief renders the active rule set into the natural-language
// policy block embedded in every generation prompt.
package brief

import (
	"fmt"
	"strings"

	"github.com/ppiankov/copywatch/internal/model"
)

// Heading is the first line of every brief. Downstream prompts key on it,
// so it must stay stable.
const Heading = "STRICT POLICY ENFORCEMENT: the rules below are mandatory. Generated text must never violate any of them."

// Build renders active rules grouped by category in the fixed category
// order. Numbering runs continuously across categories. Categories with
// no active rules are omitted. Deterministic for a given rule set.
func Build(rules []model.Rule) string {
	byCategory := make(map[model.Category][]model.Rule)
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	var b strings.Builder
	b.WriteString(Heading)
	b.WriteString("\n")

	n := 0
	for _, c := range model.CategoryOrder {
		group := byCategory[c]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[%s]\n", c)
		for _, r := range group {
			n++
			b.WriteString(ruleLine(n, r))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ruleLine renders one numbered rule: title, then forbidden words, then
// pairings, skipping empty sections.
func ruleLine(n int, r model.Rule) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d. %s", n, r.Title))

	if len(r.ForbiddenWords) > 0 {
		parts = append(parts, "forbidden words: "+strings.Join(r.ForbiddenWords, ", "))
	}

	if len(r.ForbiddenPairings) > 0 {
		rendered := make([]string, 0, len(r.ForbiddenPairings))
		for _, p := range r.ForbiddenPairings {
			rendered = append(rendered, fmt.Sprintf("%q + %q", p.Word1, p.Word2))
		}
		parts = append(parts, "forbidden pairings: "+strings.Join(rendered, ", "))
	}

	return strings.Join(parts, ". ")
}
