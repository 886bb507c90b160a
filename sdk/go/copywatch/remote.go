package copywatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteClient talks to a running copywatch server instead of linking the
// engine in-process. Useful when several pipelines share one rule store.
type RemoteClient struct {
	baseURL string
	http    *http.Client
}

// NewRemote creates a client for the server at baseURL (e.g.
// "http://localhost:8385").
func NewRemote(baseURL string) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

type remoteCheckRequest struct {
	Text string `json:"text"`
}

type remoteCheckResponse struct {
	CheckID       string `json:"checkId"`
	IsViolating   bool   `json:"isViolating"`
	OverallRisk   int    `json:"overallRisk"`
	Explanation   string `json:"explanation"`
	ViolatedRules []struct {
		RuleID     string `json:"ruleId"`
		RuleTitle  string `json:"ruleTitle"`
		Violation  string `json:"violation"`
		Severity   string `json:"severity"`
		Suggestion string `json:"suggestion"`
	} `json:"violatedRules"`
}

// Check runs the deterministic rule matcher on the server.
func (c *RemoteClient) Check(ctx context.Context, text string) (Result, error) {
	return c.check(ctx, "/v1/check", text)
}

// Recheck runs the local matcher plus the server's AI second pass.
func (c *RemoteClient) Recheck(ctx context.Context, text string) (Result, error) {
	return c.check(ctx, "/v1/recheck", text)
}

func (c *RemoteClient) check(ctx context.Context, path, text string) (Result, error) {
	body, _ := json.Marshal(remoteCheckRequest{Text: text})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("copywatch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("copywatch: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("copywatch: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("copywatch: server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var rc remoteCheckResponse
	if err := json.Unmarshal(data, &rc); err != nil {
		return Result{}, fmt.Errorf("copywatch: invalid response: %w", err)
	}

	out := Result{
		IsViolating: rc.IsViolating,
		OverallRisk: rc.OverallRisk,
		Explanation: rc.Explanation,
	}
	for _, f := range rc.ViolatedRules {
		out.Findings = append(out.Findings, Finding{
			RuleID:     f.RuleID,
			RuleTitle:  f.RuleTitle,
			Violation:  f.Violation,
			Severity:   f.Severity,
			Suggestion: f.Suggestion,
		})
	}
	return out, nil
}

// Brief fetches the rendered policy brief from the server.
func (c *RemoteClient) Brief(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/brief", nil)
	if err != nil {
		return "", fmt.Errorf("copywatch: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("copywatch: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("copywatch: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("copywatch: server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return string(data), nil
}
