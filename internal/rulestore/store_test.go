package rulestore

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/copywatch/internal/model"
	"github.com/ppiankov/copywatch/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(storage.NewMemory())
}

func TestFirstLoadSeedsDefaults(t *testing.T) {
	kv := storage.NewMemory()
	s := New(kv)

	rules := s.Load()
	if len(rules) != 6 {
		t.Fatalf("default set has %d rules, want 6", len(rules))
	}

	// The seed must be persisted, not just returned.
	if _, err := kv.Get("copywatch.rules"); err != nil {
		t.Errorf("defaults were not persisted: %v", err)
	}

	seen := map[model.Category]bool{}
	for _, r := range rules {
		if !r.IsActive {
			t.Errorf("default rule %s must start active", r.ID)
		}
		seen[r.Category] = true
	}
	for _, c := range model.CategoryOrder[:6] {
		if !seen[c] {
			t.Errorf("default set missing category %q", c)
		}
	}
}

// failingKV simulates an unreadable backend. Reads must silently fall
// back to defaults; the caller never sees the failure.
type failingKV struct{}

func (failingKV) Get(string) ([]byte, error)  { return nil, errors.New("disk on fire") }
func (failingKV) Set(string, []byte) error    { return errors.New("disk on fire") }
func (failingKV) Delete(string) error         { return errors.New("disk on fire") }

func TestLoadFallsBackToDefaultsOnReadFailure(t *testing.T) {
	s := New(failingKV{})

	rules := s.Load()
	if len(rules) != 6 {
		t.Fatalf("expected default set on read failure, got %d rules", len(rules))
	}
}

func TestLoadFallsBackToDefaultsOnCorruptData(t *testing.T) {
	kv := storage.NewMemory()
	kv.Set("copywatch.rules", []byte("{not json"))

	rules := New(kv).Load()
	if len(rules) != 6 {
		t.Fatalf("expected default set on corrupt data, got %d rules", len(rules))
	}
}

func TestAddAssignsIdentityAndPersists(t *testing.T) {
	s := newTestStore(t)

	added := s.Add(model.Rule{
		Category:       model.CategoryOverclaims,
		Title:          "No miracle claims",
		ForbiddenWords: []string{"มหัศจรรย์"},
		Severity:       model.SevHigh,
		IsActive:       true,
	})

	if added.ID == "" {
		t.Fatal("Add must assign an id")
	}
	if added.CreatedAt.IsZero() || !added.CreatedAt.Equal(added.UpdatedAt) {
		t.Error("Add must stamp createdAt == updatedAt")
	}

	found := s.Search("miracle")
	if len(found) != 1 || found[0].ID != added.ID {
		t.Fatalf("Search after Add = %v", found)
	}
}

func TestAddIDsAreUnique(t *testing.T) {
	s := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		r := s.Add(model.Rule{Title: "r", Category: model.CategoryOther})
		if seen[r.ID] {
			t.Fatalf("duplicate id %q", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestUpdateMergesAndRefreshesTimestamp(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	added := s.Add(model.Rule{Title: "old", Category: model.CategoryOther, Severity: model.SevLow})

	s.now = func() time.Time { return base.Add(time.Hour) }
	title := "new"
	updated := s.Update(added.ID, model.RulePatch{Title: &title})
	if updated == nil {
		t.Fatal("Update returned nil for existing rule")
	}
	if updated.Title != "new" || updated.Severity != model.SevLow {
		t.Errorf("merge wrong: %+v", updated)
	}
	if !updated.CreatedAt.Equal(base) {
		t.Error("createdAt must be immutable")
	}
	if !updated.UpdatedAt.Equal(base.Add(time.Hour)) {
		t.Error("updatedAt must be refreshed")
	}
}

func TestUpdateMissingRuleReturnsNil(t *testing.T) {
	s := newTestStore(t)

	title := "x"
	if got := s.Update("no-such-id", model.RulePatch{Title: &title}); got != nil {
		t.Errorf("Update on missing id = %+v, want nil", got)
	}
}

func TestDeleteRemovesFromSearch(t *testing.T) {
	s := newTestStore(t)
	added := s.Add(model.Rule{Title: "ephemeral rule", Category: model.CategoryOther})

	if !s.Delete(added.ID) {
		t.Fatal("Delete existing rule should return true")
	}
	if s.Delete(added.ID) {
		t.Error("second Delete should return false")
	}
	if got := s.Search("ephemeral"); len(got) != 0 {
		t.Errorf("deleted rule still searchable: %v", got)
	}
}

func TestSearchMatchesWordsAndExamples(t *testing.T) {
	s := newTestStore(t)
	s.Add(model.Rule{
		Title:          "pair rule",
		Category:       model.CategoryOther,
		ForbiddenWords: []string{"Superfood"},
		Examples:       []string{"ลองผลิตภัณฑ์นี้สิ"},
	})

	if got := s.Search("superfood"); len(got) != 1 {
		t.Errorf("case-insensitive word search failed: %v", got)
	}
	if got := s.Search("ผลิตภัณฑ์"); len(got) != 1 {
		t.Errorf("example search failed: %v", got)
	}
}

func TestByCategory(t *testing.T) {
	s := newTestStore(t)
	s.Load()

	got := s.ByCategory(model.CategoryMedicalSupplement)
	if len(got) != 1 {
		t.Fatalf("ByCategory medical = %d rules, want 1", len(got))
	}
	if got[0].Category != model.CategoryMedicalSupplement {
		t.Errorf("category = %q", got[0].Category)
	}
	if extra := s.ByCategory(model.CategoryOther); len(extra) != 0 {
		t.Errorf("no default rule uses category other, got %v", extra)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	src.Add(model.Rule{Title: "round trip", Category: model.CategoryOther, ForbiddenWords: []string{"x"}})
	srcRules := src.Load()

	blob, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := New(storage.NewMemory())
	if !dst.Import(blob) {
		t.Fatal("Import of exported blob failed")
	}

	dstRules := dst.Load()
	if len(dstRules) != len(srcRules) {
		t.Fatalf("imported %d rules, want %d", len(dstRules), len(srcRules))
	}
	for i := range srcRules {
		if dstRules[i].ID != srcRules[i].ID || dstRules[i].Title != srcRules[i].Title {
			t.Errorf("rule %d changed across round trip", i)
		}
	}
}

func TestImportRejectsMalformedBlob(t *testing.T) {
	s := newTestStore(t)
	before := s.Load()

	if s.Import([]byte("{broken")) {
		t.Error("Import of invalid JSON must return false")
	}
	if s.Import([]byte(`{"metadata":{}}`)) {
		t.Error("Import without rules array must return false")
	}

	after := s.Load()
	if len(after) != len(before) {
		t.Error("failed import must leave the store untouched")
	}
}

func TestImportAcceptsEmptyRulesArray(t *testing.T) {
	s := newTestStore(t)
	s.Load()

	if !s.Import([]byte(`{"rules":[]}`)) {
		t.Fatal("Import of empty rules array should succeed")
	}
	meta := s.Metadata()
	if meta.TotalRules != 0 {
		t.Errorf("TotalRules = %d after empty import, want 0", meta.TotalRules)
	}
	if meta.Source != "import" {
		t.Errorf("Source = %q, want import", meta.Source)
	}
}

func TestResetToDefaultMetadata(t *testing.T) {
	s := newTestStore(t)
	s.Import([]byte(`{"rules":[]}`))

	s.ResetToDefault()
	meta := s.Metadata()
	if meta.TotalRules != 6 || meta.ActiveRules != 6 {
		t.Errorf("metadata after reset = total %d active %d, want 6/6", meta.TotalRules, meta.ActiveRules)
	}
	if meta.Source != DefaultSource {
		t.Errorf("Source = %q, want %q", meta.Source, DefaultSource)
	}
}

func TestMetadataTracksActiveCount(t *testing.T) {
	s := newTestStore(t)
	rules := s.Load()

	off := false
	s.Update(rules[0].ID, model.RulePatch{IsActive: &off})

	meta := s.Metadata()
	if meta.TotalRules != 6 || meta.ActiveRules != 5 {
		t.Errorf("metadata = total %d active %d, want 6/5", meta.TotalRules, meta.ActiveRules)
	}
}

func TestExportBlobShape(t *testing.T) {
	s := newTestStore(t)
	s.Load()

	blob, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(blob, &doc); err != nil {
		t.Fatalf("export blob is not a JSON object: %v", err)
	}
	if _, ok := doc["rules"]; !ok {
		t.Error("export blob missing rules key")
	}
	if _, ok := doc["metadata"]; !ok {
		t.Error("export blob missing metadata key")
	}
}
