// Package rulestore is the durable collection of content-policy rules.
// Reads never fail: a missing or unreadable backend falls back to the
// built-in default set, so the safety workflow stays available.
package rulestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/copywatch/internal/model"
	"github.com/ppiankov/copywatch/internal/storage"
)

// Stable storage keys. The file backend maps these to rules.json-style
// files on disk; changing them orphans existing data.
const (
	rulesKey = "copywatch.rules"
	metaKey  = "copywatch.rules.meta"
)

// metadataVersion identifies the blob layout, not the rule content.
const metadataVersion = "1"

// Store manages rules through an injected KV backend.
// Not designed for concurrent multi-writer access across processes:
// the last save wins, which is accepted for single-operator usage.
type Store struct {
	kv storage.KV
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

// New creates a Store on top of the given backend.
func New(kv storage.KV) *Store {
	return &Store{
		kv:    kv,
		now:   func() time.Time { return time.Now().UTC() },
		newID: newRuleID,
	}
}

// Load returns all rules. The first load ever seeds the backend with the
// built-in defaults. On any read or decode failure it returns the defaults
// without seeding; it never returns an error.
func (s *Store) Load() []model.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() []model.Rule {
	data, err := s.kv.Get(rulesKey)
	if errors.Is(err, storage.ErrNotFound) {
		defaults := DefaultRules(s.now())
		s.saveLocked(defaults, DefaultSource)
		return defaults
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "copywatch: rule store read failed, using defaults: %v\n", err)
		return DefaultRules(s.now())
	}

	var rules []model.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		fmt.Fprintf(os.Stderr, "copywatch: rule store corrupt, using defaults: %v\n", err)
		return DefaultRules(s.now())
	}
	return rules
}

// Save replaces the persisted collection wholesale and recomputes metadata.
// Write failures are logged, not surfaced.
func (s *Store) Save(rules []model.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(rules, "local")
}

func (s *Store) saveLocked(rules []model.Rule, source string) {
	data, err := json.Marshal(rules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "copywatch: cannot encode rules: %v\n", err)
		return
	}
	if err := s.kv.Set(rulesKey, data); err != nil {
		fmt.Fprintf(os.Stderr, "copywatch: rule store write failed: %v\n", err)
		return
	}

	meta := computeMetadata(rules, source, s.now())
	metaData, err := json.Marshal(meta)
	if err != nil {
		fmt.Fprintf(os.Stderr, "copywatch: cannot encode metadata: %v\n", err)
		return
	}
	if err := s.kv.Set(metaKey, metaData); err != nil {
		fmt.Fprintf(os.Stderr, "copywatch: metadata write failed: %v\n", err)
	}
}

// computeMetadata derives the cached projection from a rule collection.
func computeMetadata(rules []model.Rule, source string, now time.Time) model.Metadata {
	meta := model.Metadata{
		TotalRules:  len(rules),
		LastUpdated: now,
		Source:      source,
		Version:     metadataVersion,
	}
	for _, r := range rules {
		if r.IsActive {
			meta.ActiveRules++
		}
	}
	return meta
}

// Add assigns identity and timestamps to r, appends it, and persists.
// Any caller-supplied ID or timestamps are overwritten.
func (s *Store) Add(r model.Rule) model.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	r.ID = s.newID()
	r.CreatedAt = now
	r.UpdatedAt = now

	rules := append(s.loadLocked(), r)
	s.saveLocked(rules, "local")
	return r
}

// Update merges patch into the rule with the given id and persists.
// Returns nil when no rule has that id.
func (s *Store) Update(id string, patch model.RulePatch) *model.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules := s.loadLocked()
	for i, r := range rules {
		if r.ID != id {
			continue
		}
		updated := r.Apply(patch)
		updated.UpdatedAt = s.now()
		rules[i] = updated
		s.saveLocked(rules, "local")
		return &updated
	}
	return nil
}

// Delete removes the rule with the given id. Reports whether a rule
// was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules := s.loadLocked()
	for i, r := range rules {
		if r.ID == id {
			rules = append(rules[:i], rules[i+1:]...)
			s.saveLocked(rules, "local")
			return true
		}
	}
	return false
}

// Search returns every rule whose title, description, forbidden words, or
// examples contain query, case-insensitive, in store order.
func (s *Store) Search(query string) []model.Rule {
	q := strings.ToLower(query)

	var out []model.Rule
	for _, r := range s.Load() {
		if ruleMatchesQuery(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func ruleMatchesQuery(r model.Rule, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, w := range r.ForbiddenWords {
		if strings.Contains(strings.ToLower(w), q) {
			return true
		}
	}
	for _, e := range r.Examples {
		if strings.Contains(strings.ToLower(e), q) {
			return true
		}
	}
	return false
}

// ByCategory returns rules with exactly the given category, in store order.
func (s *Store) ByCategory(c model.Category) []model.Rule {
	var out []model.Rule
	for _, r := range s.Load() {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// Active returns the rules currently eligible for matching.
func (s *Store) Active() []model.Rule {
	var out []model.Rule
	for _, r := range s.Load() {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

// Metadata returns the last-computed projection. If none was ever
// persisted it is derived from the current collection.
func (s *Store) Metadata() model.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get(metaKey)
	if err == nil {
		var meta model.Metadata
		if err := json.Unmarshal(data, &meta); err == nil {
			return meta
		}
	}
	return computeMetadata(s.loadLocked(), DefaultSource, s.now())
}

// exportBlob is the export/import document layout.
type exportBlob struct {
	Rules    []model.Rule    `json:"rules"`
	Metadata *model.Metadata `json:"metadata,omitempty"`
}

// Export serializes the collection and its metadata as one JSON document.
func (s *Store) Export() ([]byte, error) {
	rules := s.Load()
	meta := s.Metadata()

	blob := exportBlob{Rules: rules, Metadata: &meta}
	out, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export blob: %w", err)
	}
	return out, nil
}

// importBlob detects a structurally present rules array: a pointer slice
// distinguishes `"rules": []` (valid) from a missing key (rejected).
type importBlob struct {
	Rules *[]model.Rule `json:"rules"`
}

// Import replaces the collection from an export blob. Returns false and
// leaves the store untouched when the blob cannot be parsed or has no
// rules array.
func (s *Store) Import(data []byte) bool {
	var blob importBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return false
	}
	if blob.Rules == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(*blob.Rules, "import")
	return true
}

// ResetToDefault replaces the collection with the built-in default set.
func (s *Store) ResetToDefault() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(DefaultRules(s.now()), DefaultSource)
}
