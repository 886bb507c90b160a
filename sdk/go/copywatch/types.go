package copywatch

import (
	"fmt"

	"github.com/ppiankov/copywatch/internal/model"
)

// Finding describes a single rule violation.
type Finding struct {
	RuleID     string
	RuleTitle  string
	Violation  string
	Severity   string
	Suggestion string
}

// Result is a policy check outcome.
type Result struct {
	IsViolating bool
	OverallRisk int
	Explanation string
	Findings    []Finding
}

// Clean returns true if the text passed every rule.
func (r Result) Clean() bool {
	return !r.IsViolating
}

// BlockedError is returned when produced text violates the policy rules.
type BlockedError struct {
	Text   string
	Result Result
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("copywatch blocked (risk %d): %s", e.Result.OverallRisk, e.Result.Explanation)
}

// toResult maps an internal check result to an SDK Result.
func toResult(res model.CheckResult) Result {
	out := Result{
		IsViolating: res.IsViolating,
		OverallRisk: res.OverallRisk,
		Explanation: res.Explanation,
	}
	for _, f := range res.ViolatedRules {
		out.Findings = append(out.Findings, Finding{
			RuleID:     f.RuleID,
			RuleTitle:  f.RuleTitle,
			Violation:  f.Violation,
			Severity:   string(f.Severity),
			Suggestion: f.Suggestion,
		})
	}
	return out
}
