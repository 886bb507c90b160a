package copywatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapPassesCleanText(t *testing.T) {
	c := newTestClient(t)

	gen := func(ctx context.Context, prompt string) (string, error) {
		return "ครีมบำรุงผิว เนื้อสัมผัสบางเบา ซึมไว", nil
	}

	guarded := c.Wrap(gen)
	text, err := guarded(context.Background(), "write a skincare ad")
	if err != nil {
		t.Fatalf("clean text blocked: %v", err)
	}
	if text == "" {
		t.Error("expected text back")
	}
}

func TestWrapBlocksViolatingText(t *testing.T) {
	c := newTestClient(t)

	gen := func(ctx context.Context, prompt string) (string, error) {
		return "สินค้านี้รักษาโรคได้ เห็นผล 100%", nil
	}

	guarded := c.Wrap(gen)
	text, err := guarded(context.Background(), "write a supplement ad")
	if err == nil {
		t.Fatal("expected BlockedError")
	}
	if text != "" {
		t.Error("blocked call should return empty text")
	}

	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected *BlockedError, got %T", err)
	}
	if !blocked.Result.IsViolating {
		t.Error("blocked result should be violating")
	}
	if blocked.Text == "" {
		t.Error("blocked error should carry the rejected text")
	}
	if len(blocked.Result.Findings) < 2 {
		t.Errorf("expected findings for both violations, got %d", len(blocked.Result.Findings))
	}
}

func TestWrapPropagatesGeneratorError(t *testing.T) {
	c := newTestClient(t)

	genErr := fmt.Errorf("model unavailable")
	gen := func(ctx context.Context, prompt string) (string, error) {
		return "", genErr
	}

	guarded := c.Wrap(gen)
	if _, err := guarded(context.Background(), "anything"); !errors.Is(err, genErr) {
		t.Errorf("expected generator error, got %v", err)
	}
}

func TestWrapWithBriefInjectsRules(t *testing.T) {
	c := newTestClient(t)

	var seenPrompt string
	gen := func(ctx context.Context, prompt string) (string, error) {
		seenPrompt = prompt
		return "ข้อความโฆษณาทั่วไป", nil
	}

	guarded := c.Wrap(gen, WrapWithBrief())
	if _, err := guarded(context.Background(), "write an ad"); err != nil {
		t.Fatalf("guarded call failed: %v", err)
	}

	if !strings.HasPrefix(seenPrompt, "STRICT POLICY ENFORCEMENT") {
		t.Error("prompt missing policy brief prefix")
	}
	if !strings.HasSuffix(seenPrompt, "write an ad") {
		t.Error("prompt missing original instruction")
	}
}

func TestWrapWithRecheckFallsBackWithoutJudge(t *testing.T) {
	c := newTestClient(t)

	gen := func(ctx context.Context, prompt string) (string, error) {
		return "ข้อความสะอาด ไม่มีคำต้องห้าม", nil
	}

	guarded := c.Wrap(gen, WrapWithRecheck())
	if _, err := guarded(context.Background(), "write an ad"); err != nil {
		t.Fatalf("recheck without judge should pass clean text: %v", err)
	}
}
