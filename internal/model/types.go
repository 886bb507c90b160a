package model

import "time"

// Category classifies what kind of policy a rule enforces.
type Category string

const (
	CategoryOverclaims        Category = "overclaims"
	CategoryMedicalSupplement Category = "medical_supplement"
	CategoryForbiddenPairings Category = "forbidden_pairings"
	CategoryViolenceSafety    Category = "violence_safety"
	CategoryPlatformMentions  Category = "platform_mentions"
	CategoryBeforeAfter       Category = "before_after"
	CategoryOther             Category = "other"
)

// CategoryOrder is the fixed rendering order for briefs and reports.
// "other" always comes last.
var CategoryOrder = []Category{
	CategoryOverclaims,
	CategoryMedicalSupplement,
	CategoryForbiddenPairings,
	CategoryViolenceSafety,
	CategoryPlatformMentions,
	CategoryBeforeAfter,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryOverclaims, CategoryMedicalSupplement, CategoryForbiddenPairings,
		CategoryViolenceSafety, CategoryPlatformMentions, CategoryBeforeAfter, CategoryOther:
		return true
	}
	return false
}

// Severity ranks how risky a violated rule is.
type Severity string

const (
	SevLow      Severity = "low"
	SevMedium   Severity = "medium"
	SevHigh     Severity = "high"
	SevCritical Severity = "critical"
)

// Pairing is two words whose joint presence in a text constitutes a
// violation, regardless of order, even when neither word alone is forbidden.
type Pairing struct {
	Word1 string `json:"word1"`
	Word2 string `json:"word2"`
}

// Rule is a single content-policy constraint.
// JSON field names match the persisted blob layout consumed by
// export/import, so they must not change.
type Rule struct {
	ID                string    `json:"id"`
	Category          Category  `json:"category"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ForbiddenWords    []string  `json:"forbiddenWords"`
	ForbiddenPairings []Pairing `json:"forbiddenPairings"`
	Examples          []string  `json:"examples"`
	Severity          Severity  `json:"severity"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Metadata is a cached projection over the rule collection.
// It is recomputed on every store write and never hand-edited.
type Metadata struct {
	TotalRules  int       `json:"totalRules"`
	ActiveRules int       `json:"activeRules"`
	LastUpdated time.Time `json:"lastUpdated"`
	Source      string    `json:"source"`
	Version     string    `json:"version"`
}

// Finding is one per-rule match inside a check result.
type Finding struct {
	RuleID     string   `json:"ruleId"`
	RuleTitle  string   `json:"ruleTitle"`
	Violation  string   `json:"violation"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion"`
}

// CheckResult is the outcome of evaluating one text against the rule set.
// Not persisted.
type CheckResult struct {
	IsViolating   bool      `json:"isViolating"`
	ViolatedRules []Finding `json:"violatedRules"`
	OverallRisk   int       `json:"overallRisk"`
	Explanation   string    `json:"explanation"`
}
