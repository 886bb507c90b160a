package model

import "fmt"

// Validate checks the structural invariants of a rule: a known category,
// a title, no empty forbidden words, and no pairing with an empty member.
// Equal pairing members and duplicate words are deliberately NOT rejected;
// redundant rules still match correctly.
func (r Rule) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("rule title must not be empty")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("unknown rule category %q", r.Category)
	}
	for i, w := range r.ForbiddenWords {
		if w == "" {
			return fmt.Errorf("forbidden word %d is empty", i)
		}
	}
	for i, p := range r.ForbiddenPairings {
		if p.Word1 == "" || p.Word2 == "" {
			return fmt.Errorf("forbidden pairing %d has an empty member", i)
		}
	}
	return nil
}
