package model

import "testing"

func TestPatchAppliesOnlySetFields(t *testing.T) {
	orig := Rule{
		ID:             "r1",
		Category:       CategoryOverclaims,
		Title:          "old title",
		Description:    "old description",
		ForbiddenWords: []string{"a", "b"},
		Severity:       SevLow,
		IsActive:       true,
	}

	title := "new title"
	sev := SevCritical
	patched := orig.Apply(RulePatch{Title: &title, Severity: &sev})

	if patched.Title != "new title" {
		t.Errorf("title = %q, want %q", patched.Title, "new title")
	}
	if patched.Severity != SevCritical {
		t.Errorf("severity = %q, want critical", patched.Severity)
	}
	if patched.Description != "old description" {
		t.Error("unset field must be preserved")
	}
	if patched.ID != "r1" {
		t.Error("id must never change")
	}
}

func TestPatchDoesNotMutateOriginal(t *testing.T) {
	orig := Rule{ID: "r1", Title: "original", ForbiddenWords: []string{"x"}}

	words := []string{"y", "z"}
	patched := orig.Apply(RulePatch{ForbiddenWords: &words})

	if len(orig.ForbiddenWords) != 1 || orig.ForbiddenWords[0] != "x" {
		t.Error("original rule was mutated")
	}
	patched.ForbiddenWords[0] = "mutated"
	if words[0] == "mutated" {
		t.Error("patched rule aliases the patch slice")
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range CategoryOrder {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	if Category("payments").Valid() {
		t.Error("unknown category should be invalid")
	}
}

func TestValidateRejectsEmptyWord(t *testing.T) {
	r := Rule{Title: "t", Category: CategoryOther, ForbiddenWords: []string{"ok", ""}}
	if err := r.Validate(); err == nil {
		t.Error("expected validation error for empty forbidden word")
	}
}

func TestValidateRejectsEmptyPairingMember(t *testing.T) {
	r := Rule{Title: "t", Category: CategoryOther, ForbiddenPairings: []Pairing{{Word1: "a", Word2: ""}}}
	if err := r.Validate(); err == nil {
		t.Error("expected validation error for empty pairing member")
	}
}

// Equal pairing members are accepted on purpose: the store has never
// enforced word1 != word2 and matching still behaves sensibly.
func TestValidateAllowsEqualPairingMembers(t *testing.T) {
	r := Rule{Title: "t", Category: CategoryOther, ForbiddenPairings: []Pairing{{Word1: "ลด", Word2: "ลด"}}}
	if err := r.Validate(); err != nil {
		t.Errorf("equal pairing members should validate, got %v", err)
	}
}
