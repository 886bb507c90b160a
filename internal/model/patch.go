package model

// RulePatch is a typed set of optional field changes for a rule.
// Nil fields are left untouched. ID and CreatedAt can never be patched.
type RulePatch struct {
	Category          *Category
	Title             *string
	Description       *string
	ForbiddenWords    *[]string
	ForbiddenPairings *[]Pairing
	Examples          *[]string
	Severity          *Severity
	IsActive          *bool
}

// Apply merges the patch into r and returns the merged copy.
// The receiver is not mutated, so callers holding references to the
// original rule never observe partial updates.
func (r Rule) Apply(p RulePatch) Rule {
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.ForbiddenWords != nil {
		r.ForbiddenWords = append([]string(nil), *p.ForbiddenWords...)
	}
	if p.ForbiddenPairings != nil {
		r.ForbiddenPairings = append([]Pairing(nil), *p.ForbiddenPairings...)
	}
	if p.Examples != nil {
		r.Examples = append([]string(nil), *p.Examples...)
	}
	if p.Severity != nil {
		r.Severity = *p.Severity
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
	return r
}
