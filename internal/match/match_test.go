package match

import (
	"reflect"
	"testing"

	"github.com/ppiankov/copywatch/internal/model"
)

func wordRule(id string, sev model.Severity, words ...string) model.Rule {
	return model.Rule{
		ID:             id,
		Title:          "rule " + id,
		Category:       model.CategoryOverclaims,
		ForbiddenWords: words,
		Severity:       sev,
		IsActive:       true,
	}
}

func pairRule(id string, sev model.Severity, pairs ...model.Pairing) model.Rule {
	return model.Rule{
		ID:                id,
		Title:             "rule " + id,
		Category:          model.CategoryForbiddenPairings,
		ForbiddenPairings: pairs,
		Severity:          sev,
		IsActive:          true,
	}
}

func TestForbiddenWordCritical(t *testing.T) {
	rules := []model.Rule{wordRule("r1", model.SevCritical, "รักษา")}

	res := Check("ครีมนี้รักษาฝ้า", rules)
	if !res.IsViolating {
		t.Fatal("expected violation")
	}
	if len(res.ViolatedRules) != 1 {
		t.Fatalf("findings = %d, want 1", len(res.ViolatedRules))
	}
	if res.OverallRisk != 60 {
		t.Errorf("risk = %d, want 60", res.OverallRisk)
	}
}

func TestPairingInOrder(t *testing.T) {
	rules := []model.Rule{pairRule("r1", model.SevHigh, model.Pairing{Word1: "ลด", Word2: "ไขมัน"})}

	res := Check("ช่วยลดไขมันสะสม", rules)
	if len(res.ViolatedRules) != 1 {
		t.Fatalf("findings = %d, want 1", len(res.ViolatedRules))
	}
	if res.OverallRisk != 40 {
		t.Errorf("risk = %d, want 40", res.OverallRisk)
	}
}

func TestPairingReversedOrder(t *testing.T) {
	rules := []model.Rule{pairRule("r1", model.SevHigh, model.Pairing{Word1: "ลด", Word2: "ไขมัน"})}

	res := Check("ไขมันในอาหารที่ควรลด", rules)
	if len(res.ViolatedRules) != 1 {
		t.Fatalf("reversed-order pairing must still match, findings = %d", len(res.ViolatedRules))
	}
	if res.OverallRisk != 40 {
		t.Errorf("risk = %d, want 40", res.OverallRisk)
	}
}

func TestCleanText(t *testing.T) {
	rules := []model.Rule{
		wordRule("r1", model.SevCritical, "รักษา"),
		pairRule("r2", model.SevHigh, model.Pairing{Word1: "ลด", Word2: "ไขมัน"}),
	}

	res := Check("สวัสดีครับ วันนี้อากาศดี", rules)
	if res.IsViolating {
		t.Error("clean text flagged")
	}
	if res.OverallRisk != 0 {
		t.Errorf("risk = %d, want 0", res.OverallRisk)
	}
	if res.Explanation != "no policy violations found" {
		t.Errorf("explanation = %q", res.Explanation)
	}
}

func TestInactiveRuleContributesNothing(t *testing.T) {
	r := wordRule("r1", model.SevCritical, "รักษา")
	r.IsActive = false

	res := Check("ครีมนี้รักษาฝ้า", []model.Rule{r})
	if res.IsViolating || res.OverallRisk != 0 {
		t.Errorf("inactive rule matched: %+v", res)
	}
}

func TestCaseInsensitiveWordMatch(t *testing.T) {
	rules := []model.Rule{wordRule("r1", model.SevMedium, "Before-After")}

	res := Check("ดูภาพ BEFORE-after ได้เลย", rules)
	if len(res.ViolatedRules) != 1 {
		t.Error("expected case-insensitive match")
	}
}

func TestRiskCappedAt100(t *testing.T) {
	rules := []model.Rule{wordRule("r1", model.SevCritical, "a", "b", "c")}

	res := Check("a b c", rules)
	if len(res.ViolatedRules) != 3 {
		t.Fatalf("findings = %d, want 3", len(res.ViolatedRules))
	}
	if res.OverallRisk != 100 {
		t.Errorf("risk = %d, want cap of 100", res.OverallRisk)
	}
}

func TestRiskMonotonicInFindings(t *testing.T) {
	text := "a b"
	one := Check(text, []model.Rule{wordRule("r1", model.SevLow, "a")})
	two := Check(text, []model.Rule{wordRule("r1", model.SevLow, "a"), wordRule("r2", model.SevLow, "b")})

	if two.OverallRisk < one.OverallRisk {
		t.Errorf("adding a violating rule lowered risk: %d -> %d", one.OverallRisk, two.OverallRisk)
	}
}

func TestUnknownSeverityUsesDefaultWeight(t *testing.T) {
	rules := []model.Rule{wordRule("r1", model.Severity("extreme"), "a")}

	res := Check("a", rules)
	if res.OverallRisk != DefaultWeight {
		t.Errorf("risk = %d, want default weight %d", res.OverallRisk, DefaultWeight)
	}
}

func TestNoDeduplicationAcrossRules(t *testing.T) {
	rules := []model.Rule{
		wordRule("r1", model.SevLow, "ฟรี"),
		wordRule("r2", model.SevLow, "ฟรี"),
	}

	res := Check("แจกฟรี", rules)
	if len(res.ViolatedRules) != 2 {
		t.Errorf("duplicate words across rules must both report, got %d findings", len(res.ViolatedRules))
	}
	if res.OverallRisk != 20 {
		t.Errorf("risk = %d, want 20", res.OverallRisk)
	}
}

// A pairing with equal members is not rejected anywhere in the pipeline.
// It matches only when the word occurs twice, which is the regex
// semantics the store has always had.
func TestPairingWithEqualMembers(t *testing.T) {
	rules := []model.Rule{pairRule("r1", model.SevLow, model.Pairing{Word1: "ลด", Word2: "ลด"})}

	if res := Check("ลดแหลก ลดอีก", rules); len(res.ViolatedRules) != 1 {
		t.Errorf("double occurrence should match, got %d findings", len(res.ViolatedRules))
	}
	if res := Check("ลดเดียว", rules); len(res.ViolatedRules) != 0 {
		t.Errorf("single occurrence should not match, got %d findings", len(res.ViolatedRules))
	}
}

func TestDeterministic(t *testing.T) {
	rules := []model.Rule{
		wordRule("r1", model.SevHigh, "หายขาด", "100%"),
		pairRule("r2", model.SevMedium, model.Pairing{Word1: "ลด", Word2: "น้ำหนัก"}),
	}
	text := "ลดน้ำหนัก หายขาด 100%"

	first := Check(text, rules)
	for i := 0; i < 10; i++ {
		if got := Check(text, rules); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestFindingOrderFollowsRuleOrder(t *testing.T) {
	rules := []model.Rule{
		wordRule("r1", model.SevLow, "x"),
		wordRule("r2", model.SevLow, "y"),
	}

	res := Check("y then x", rules)
	if len(res.ViolatedRules) != 2 {
		t.Fatalf("findings = %d, want 2", len(res.ViolatedRules))
	}
	if res.ViolatedRules[0].RuleID != "r1" || res.ViolatedRules[1].RuleID != "r2" {
		t.Error("findings must follow rule evaluation order, not text order")
	}
}
