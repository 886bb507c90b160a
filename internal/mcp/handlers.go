package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/copywatch/internal/brief"
	"github.com/ppiankov/copywatch/internal/match"
	"github.com/ppiankov/copywatch/internal/model"
)

// --- Input/Output types ---

// CheckInput defines parameters for the check and recheck tools.
type CheckInput struct {
	Text string `json:"text" jsonschema:"text to evaluate against the policy rules"`
}

// CheckOutput contains the violation report.
type CheckOutput struct {
	IsViolating   bool            `json:"is_violating"`
	OverallRisk   int             `json:"overall_risk"`
	Explanation   string          `json:"explanation"`
	ViolatedRules []model.Finding `json:"violated_rules,omitempty"`
}

// RulesInput defines parameters for the rules tool.
type RulesInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by category (overclaims/medical_supplement/forbidden_pairings/violence_safety/platform_mentions/before_after/other)"`
	Query    string `json:"query,omitempty" jsonschema:"case-insensitive search over titles, descriptions, words, and examples"`
}

// RulesOutput lists matching rules.
type RulesOutput struct {
	Rules []RuleItem `json:"rules"`
}

// RuleItem is a compact rule view for agents.
type RuleItem struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Severity string   `json:"severity"`
	IsActive bool     `json:"is_active"`
	Words    []string `json:"forbidden_words,omitempty"`
}

// BriefInput is empty; no parameters needed.
type BriefInput struct{}

// BriefOutput carries the rendered brief.
type BriefOutput struct {
	Brief string `json:"brief"`
}

// --- Handlers ---

func toCheckOutput(res model.CheckResult) CheckOutput {
	return CheckOutput{
		IsViolating:   res.IsViolating,
		OverallRisk:   res.OverallRisk,
		Explanation:   res.Explanation,
		ViolatedRules: res.ViolatedRules,
	}
}

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	if input.Text == "" {
		return nil, CheckOutput{}, fmt.Errorf("text is required")
	}

	res := match.Check(input.Text, s.eng.Store.Active())
	out := toCheckOutput(res)
	return &mcpsdk.CallToolResult{IsError: res.IsViolating}, out, nil
}

func (s *Server) handleRecheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	if input.Text == "" {
		return nil, CheckOutput{}, fmt.Errorf("text is required")
	}

	res := s.eng.Recheck.Recheck(ctx, input.Text)
	out := toCheckOutput(res)
	return &mcpsdk.CallToolResult{IsError: res.IsViolating}, out, nil
}

func (s *Server) handleRules(ctx context.Context, req *mcpsdk.CallToolRequest, input RulesInput) (*mcpsdk.CallToolResult, RulesOutput, error) {
	var rules []model.Rule
	switch {
	case input.Query != "":
		rules = s.eng.Store.Search(input.Query)
	case input.Category != "":
		cat := model.Category(input.Category)
		if !cat.Valid() {
			return nil, RulesOutput{}, fmt.Errorf("unknown category %q", input.Category)
		}
		rules = s.eng.Store.ByCategory(cat)
	default:
		rules = s.eng.Store.Load()
	}

	out := RulesOutput{Rules: make([]RuleItem, 0, len(rules))}
	for _, r := range rules {
		out.Rules = append(out.Rules, RuleItem{
			ID:       r.ID,
			Category: string(r.Category),
			Title:    r.Title,
			Severity: string(r.Severity),
			IsActive: r.IsActive,
			Words:    r.ForbiddenWords,
		})
	}
	return nil, out, nil
}

func (s *Server) handleBrief(ctx context.Context, req *mcpsdk.CallToolRequest, input BriefInput) (*mcpsdk.CallToolResult, BriefOutput, error) {
	return nil, BriefOutput{Brief: brief.Build(s.eng.Store.Active())}, nil
}
