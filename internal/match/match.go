// Package match evaluates a text against the active rule set. Check is
// pure: no persistence, no network, deterministic for identical inputs.
package match

import (
	"fmt"
	"strings"

	"github.com/ppiankov/copywatch/internal/model"
)

// Weights maps severity to its risk contribution. This is the single
// scoring table; nothing else may inline severity weights.
var Weights = map[model.Severity]int{
	model.SevLow:      10,
	model.SevMedium:   25,
	model.SevHigh:     40,
	model.SevCritical: 60,
}

// DefaultWeight is charged for severities outside the table, so imported
// rules with unknown severities still raise the score.
const DefaultWeight = 20

// MaxRisk caps the overall score.
const MaxRisk = 100

// WeightFor returns the risk weight for a severity.
func WeightFor(s model.Severity) int {
	if w, ok := Weights[s]; ok {
		return w
	}
	return DefaultWeight
}

// Check evaluates text against rules and returns a structured report.
// Inactive rules contribute nothing. Findings accumulate in rule order,
// words before pairings within a rule, without deduplication.
func Check(text string, rules []model.Rule) model.CheckResult {
	lower := strings.ToLower(text)

	var findings []model.Finding
	for _, r := range rules {
		if !r.IsActive {
			continue
		}

		for _, w := range r.ForbiddenWords {
			if w == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(w)) {
				findings = append(findings, model.Finding{
					RuleID:     r.ID,
					RuleTitle:  r.Title,
					Violation:  fmt.Sprintf("found forbidden word: %s", w),
					Severity:   r.Severity,
					Suggestion: fmt.Sprintf("avoid using the word %q", w),
				})
			}
		}

		for _, p := range r.ForbiddenPairings {
			if p.Word1 == "" || p.Word2 == "" {
				continue
			}
			if pairingPresent(lower, strings.ToLower(p.Word1), strings.ToLower(p.Word2)) {
				findings = append(findings, model.Finding{
					RuleID:     r.ID,
					RuleTitle:  r.Title,
					Violation:  fmt.Sprintf("found forbidden pairing: %q + %q", p.Word1, p.Word2),
					Severity:   r.Severity,
					Suggestion: fmt.Sprintf("avoid pairing %q with %q", p.Word1, p.Word2),
				})
			}
		}
	}

	result := model.CheckResult{
		IsViolating:   len(findings) > 0,
		ViolatedRules: findings,
		OverallRisk:   riskScore(findings),
		Explanation:   fmt.Sprintf("found %d policy violation(s) in the text", len(findings)),
	}
	if len(findings) == 0 {
		result.Explanation = "no policy violations found"
	}
	return result
}

// pairingPresent reports whether w1 is followed anywhere later by w2, or
// w2 is followed anywhere later by w1. Order-independent by construction.
func pairingPresent(text, w1, w2 string) bool {
	if i := strings.Index(text, w1); i >= 0 && strings.Contains(text[i+len(w1):], w2) {
		return true
	}
	if j := strings.Index(text, w2); j >= 0 && strings.Contains(text[j+len(w2):], w1) {
		return true
	}
	return false
}

// riskScore sums finding weights, capped at MaxRisk. Cumulative scoring
// based on severity, not anomaly detection.
func riskScore(findings []model.Finding) int {
	risk := 0
	for _, f := range findings {
		risk += WeightFor(f.Severity)
	}
	if risk > MaxRisk {
		return MaxRisk
	}
	return risk
}
