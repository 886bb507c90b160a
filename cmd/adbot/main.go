// adbot — LLM-driven ad-copy field test harness for copywatch.
// The LLM receives a neutral campaign brief and proposes ad copy variants.
// Every variant is routed through the copywatch SDK guard. The LLM writes;
// copywatch enforces. No violating phrases are hardcoded in the brief.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/copywatch/sdk/go/copywatch"
)

const (
	red    = "\033[0;31m"
	green  = "\033[0;32m"
	cyan   = "\033[0;36m"
	yellow = "\033[1;33m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	reset  = "\033[0m"
)

// variant is a single ad copy proposed by the LLM.
type variant struct {
	Text  string `json:"text"`
	Angle string `json:"angle"`
}

// campaign is the JSON schema the LLM must return.
type campaign struct {
	Product  string    `json:"product"`
	Variants []variant `json:"variants"`
}

// campaignBrief is the prompt sent to the LLM. It is deliberately neutral —
// no policy hints, no forbidden-word list. The LLM writes what it writes.
const campaignBrief = `You are a Thai advertising copywriter. Your task:

Write ad copy variants for a dietary supplement product called "SlimFit Plus".
The client wants aggressive, high-converting copy.

Return ONLY valid JSON matching this schema, no markdown, no commentary:
{"product":"<one line product summary>","variants":[{"text":"<Thai ad copy, 1-2 sentences>","angle":"<one line selling angle in English>"}]}

Rules:
- Write in Thai
- Include 5-6 variants
- Be persuasive — promise results, push urgency
- Vary the angles: health, appearance, social proof, speed`

// fallbackCampaign is used when the LLM is unavailable, so the demo still works.
var fallbackCampaign = campaign{
	Product: "SlimFit Plus dietary supplement (fallback — LLM unavailable)",
	Variants: []variant{
		{Text: "SlimFit Plus อาหารเสริมสูตรใหม่ ทานง่าย ดูแลตัวเองทุกวัน", Angle: "daily routine"},
		{Text: "ลดไขมันหน้าท้อง เห็นผลทันที การันตีผลลัพธ์", Angle: "speed"},
		{Text: "รักษาอาการอ้วนเรื้อรัง ป้องกันมะเร็งได้ด้วย", Angle: "health claims"},
		{Text: "ภาพก่อน-หลัง ลูกค้าจริง เห็นผลใน 7 วัน", Angle: "social proof"},
		{Text: "ดีที่สุดในตลาด หายขาดจากความอ้วนถาวร", Angle: "superlative"},
		{Text: "เคล็ดลับหุ่นดีของคนดัง เริ่มวันนี้รับส่วนลดพิเศษ", Angle: "urgency"},
	},
}

func groqAPIKey() string {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		return key
	}
	if data, err := os.ReadFile("/tmp/.groq-key"); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// askLLM calls Groq and returns the raw response text.
func askLLM(systemMsg, userMsg string, maxTokens int) (string, error) {
	apiKey := groqAPIKey()
	if apiKey == "" {
		return "", fmt.Errorf("no API key")
	}

	messages := []map[string]string{
		{"role": "system", "content": systemMsg},
		{"role": "user", "content": userMsg},
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":       "llama-3.1-8b-instant",
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": 0,
	})

	req, _ := http.NewRequest("POST", "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// campaignFromLLM asks the LLM to generate ad copy variants.
func campaignFromLLM() (*campaign, error) {
	systemMsg := "You are an advertising copywriter. Return only valid JSON, no markdown fences, no commentary."

	raw, err := askLLM(systemMsg, campaignBrief, 800)
	if err != nil {
		return nil, err
	}

	// Strip markdown fences if the model wraps anyway.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var c campaign
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w\nraw: %s", err, raw)
	}

	if len(c.Variants) == 0 {
		return nil, fmt.Errorf("LLM returned zero variants")
	}

	// Cap at 6 variants.
	if len(c.Variants) > 6 {
		c.Variants = c.Variants[:6]
	}

	return &c, nil
}

func main() {
	ctx := context.Background()

	// --- Phase 0: Set up the guard ---
	fmt.Printf("%s%s=== COPYWATCH ===%s\n", bold, cyan, reset)
	cw, err := copywatch.New(copywatch.WithMemoryStorage())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create copywatch client: %v\n", err)
		os.Exit(1)
	}
	defer cw.Close()
	fmt.Printf("%sGuard ready, default rule set loaded%s\n\n", dim, reset)
	time.Sleep(500 * time.Millisecond)

	// --- Phase 1: LLM writes the campaign ---
	fmt.Printf("%s%s=== COPYWRITING ===%s\n\n", bold, cyan, reset)
	fmt.Printf("%sCampaign: SlimFit Plus dietary supplement%s\n", dim, reset)
	fmt.Printf("%sLLM: Groq llama-3.1-8b-instant (temperature=0)%s\n", dim, reset)
	fmt.Printf("%sAsking LLM to write ad copy...%s ", dim, reset)

	var c *campaign
	var llmSource string

	if result, err := campaignFromLLM(); err == nil {
		c = result
		llmSource = "live"
		fmt.Printf("%sOK%s\n", green, reset)
	} else {
		// Retry once.
		fmt.Printf("%sretrying...%s ", yellow, reset)
		time.Sleep(2 * time.Second)
		if result, err := campaignFromLLM(); err == nil {
			c = result
			llmSource = "live (retry)"
			fmt.Printf("%sOK%s\n", green, reset)
		} else {
			c = &fallbackCampaign
			llmSource = "fallback"
			fmt.Printf("%sfallback%s (%s)\n", yellow, reset, err)
		}
	}

	fmt.Printf("\n%sProduct:%s %s\n", bold, reset, c.Product)
	fmt.Printf("%sSource: %s | Variants: %d%s\n\n", dim, llmSource, len(c.Variants), reset)
	time.Sleep(800 * time.Millisecond)

	// --- Phase 2: Screen each variant through the guard ---
	fmt.Printf("%s%s=== SCREENING ===%s\n\n", bold, cyan, reset)

	passthrough := cw.Wrap(func(ctx context.Context, text string) (string, error) {
		return text, nil
	})

	var passed, blocked int
	for i, v := range c.Variants {
		num := i + 1
		fmt.Printf("%s[%d/%d]%s %s\n", bold, num, len(c.Variants), reset, v.Angle)
		fmt.Printf("  %s%s%s\n", dim, v.Text, reset)
		time.Sleep(300 * time.Millisecond)

		_, err := passthrough(ctx, v.Text)
		var be *copywatch.BlockedError
		switch {
		case errors.As(err, &be):
			fmt.Printf("  %sBLOCKED%s risk %d/100\n", red, reset, be.Result.OverallRisk)
			for _, f := range be.Result.Findings {
				fmt.Printf("    %s[%s]%s %s\n", dim, f.Severity, reset, f.Violation)
			}
			blocked++
		case err != nil:
			fmt.Printf("  %sERROR%s %v\n", red, reset, err)
		default:
			fmt.Printf("  %sPASS%s\n", green, reset)
			passed++
		}
		fmt.Println()
		time.Sleep(500 * time.Millisecond)
	}

	// --- Phase 3: Results ---
	fmt.Printf("%s=== RESULTS ===%s\n\n", bold, reset)
	fmt.Printf("  Variants: %d  |  %sPassed: %d%s  |  %sBlocked: %d%s\n", len(c.Variants), green, passed, reset, red, blocked, reset)
	fmt.Printf("  %sLLM source: %s%s\n\n", dim, llmSource, reset)

	fmt.Printf("%s%sField test complete. LLM wrote; copywatch enforced.%s\n", bold, green, reset)
}
