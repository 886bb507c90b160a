package recheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/copywatch/internal/match"
	"github.com/ppiankov/copywatch/internal/model"
)

// ErrRateLimited is returned when the judge endpoint answers 429.
// Callers of Recheck never see it; sweepers and CLIs branch on it.
var ErrRateLimited = errors.New("recheck: judge rate limited")

// HTTPJudgeConfig holds parameters for an OpenAI-compatible chat endpoint.
type HTTPJudgeConfig struct {
	APIURL    string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// HTTPJudge asks a chat-completions endpoint for a structured judgment.
type HTTPJudge struct {
	cfg    HTTPJudgeConfig
	client *http.Client
}

// NewHTTPJudge creates a judge with defaults applied.
func NewHTTPJudge(cfg HTTPJudgeConfig) *HTTPJudge {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &HTTPJudge{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

const judgeInstructions = `You are a content-policy reviewer for advertising scripts. You receive a policy brief and a text sample. Judge whether the text violates any rule in the brief, including paraphrased or implied violations that literal word matching would miss.

Return ONLY valid JSON, no markdown fences, no commentary:
{"isViolating":<bool>,"violatedRules":[{"ruleId":"<id>","ruleTitle":"<title>","violation":"<what was found>","severity":"low|medium|high|critical","suggestion":"<how to fix>"}],"overallRisk":<0-100>,"explanation":"<one sentence>"}

If the text is clean, return: {"isViolating":false,"violatedRules":[],"overallRisk":0,"explanation":"no violations found"}`

// Judge sends the brief and text to the endpoint and parses the judgment.
func (j *HTTPJudge) Judge(ctx context.Context, policyBrief, text string) (*model.CheckResult, error) {
	system := judgeInstructions + "\n\n" + policyBrief

	body, _ := json.Marshal(map[string]any{
		"model": j.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": text},
		},
		"max_tokens":  j.cfg.MaxTokens,
		"temperature": 0,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if j.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+j.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return nil, fmt.Errorf("empty judge response")
	}

	return ParseJudgment(result.Choices[0].Message.Content)
}

// ParseJudgment extracts a CheckResult from raw model output. Tolerates
// markdown fences and missing optional fields; clamps the risk score.
func ParseJudgment(raw string) (*model.CheckResult, error) {
	cleaned := cleanJSON(raw)

	var res model.CheckResult
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return nil, fmt.Errorf("cannot parse judgment: %s", truncate(cleaned, 200))
	}

	if res.OverallRisk < 0 {
		res.OverallRisk = 0
	}
	if res.OverallRisk > match.MaxRisk {
		res.OverallRisk = match.MaxRisk
	}
	if len(res.ViolatedRules) > 0 {
		res.IsViolating = true
	}
	return &res, nil
}

// cleanJSON strips markdown fences and leading/trailing whitespace.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
