// Package recheck combines the local rule matcher with an optional
// LLM-backed second opinion. Local findings are authoritative: the
// external judge can only add violations, never mask them, and its
// failures never reach the caller.
package recheck

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/copywatch/internal/brief"
	"github.com/ppiankov/copywatch/internal/match"
	"github.com/ppiankov/copywatch/internal/model"
	"github.com/ppiankov/copywatch/internal/rulestore"
)

// Judge is the external collaborator contract: given the compiled policy
// brief and a text sample, return a structured judgment or an error.
type Judge interface {
	Judge(ctx context.Context, policyBrief, text string) (*model.CheckResult, error)
}

// Reconciler runs the cheap local check first and consults the judge
// only when the text looks clean locally.
type Reconciler struct {
	store *rulestore.Store
	judge Judge // nil disables the external pass
}

// New creates a Reconciler. A nil judge yields local-only rechecks.
func New(store *rulestore.Store, judge Judge) *Reconciler {
	return &Reconciler{store: store, judge: judge}
}

// Recheck evaluates text against the active rules, then optionally the
// external judge. It never returns an error: judge failures degrade to
// the local result with a logged warning.
func (r *Reconciler) Recheck(ctx context.Context, text string) model.CheckResult {
	active := r.store.Active()
	local := match.Check(text, active)

	// A local hit is sufficient to block; skip the expensive pass.
	if local.IsViolating {
		return local
	}
	if r.judge == nil {
		return local
	}

	external, err := r.judge.Judge(ctx, brief.Build(active), text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "copywatch: external recheck failed, using local result: %v\n", err)
		return local
	}

	return merge(local, *external)
}

// merge folds the external judgment into the local result. Local findings
// come first, risk is the max of both, and the external explanation wins
// when present.
func merge(local, external model.CheckResult) model.CheckResult {
	out := model.CheckResult{
		IsViolating:   local.IsViolating || external.IsViolating,
		ViolatedRules: append(append([]model.Finding(nil), local.ViolatedRules...), external.ViolatedRules...),
		OverallRisk:   local.OverallRisk,
		Explanation:   local.Explanation,
	}
	if external.OverallRisk > out.OverallRisk {
		out.OverallRisk = external.OverallRisk
	}
	if out.OverallRisk > match.MaxRisk {
		out.OverallRisk = match.MaxRisk
	}
	if external.Explanation != "" {
		out.Explanation = external.Explanation
	}
	return out
}
