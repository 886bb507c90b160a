package rulestore

import (
	"time"

	"github.com/ppiankov/copywatch/internal/model"
)

// DefaultSource marks rule sets seeded from the built-in defaults.
const DefaultSource = "builtin"

// DefaultRules returns the built-in bootstrap rule set: one rule per
// non-"other" category, covering the violations Thai ad reviewers reject
// most often. All defaults start active. Timestamps are stamped with now
// so metadata projection behaves the same as for user-created rules.
func DefaultRules(now time.Time) []model.Rule {
	rules := []model.Rule{
		{
			ID:          "default-overclaims",
			Category:    model.CategoryOverclaims,
			Title:       "Absolute effectiveness claims",
			Description: "Superlatives and guaranteed-result wording that cannot be substantiated.",
			ForbiddenWords: []string{
				"ดีที่สุด", "เห็นผล 100%", "หายขาด", "เห็นผลทันที", "การันตีผลลัพธ์",
			},
			Examples: []string{"ครีมนี้ดีที่สุดในโลก เห็นผล 100%"},
			Severity: model.SevHigh,
			IsActive: true,
		},
		{
			ID:          "default-medical",
			Category:    model.CategoryMedicalSupplement,
			Title:       "Curative or therapeutic claims",
			Description: "Cosmetics and supplements must not claim to treat, cure, or prevent disease.",
			ForbiddenWords: []string{
				"รักษา", "บำบัด", "ป้องกันมะเร็ง", "ลดเบาหวาน", "แก้โรค",
			},
			Examples: []string{"อาหารเสริมนี้รักษาเบาหวานได้"},
			Severity: model.SevCritical,
			IsActive: true,
		},
		{
			ID:          "default-pairings",
			Category:    model.CategoryForbiddenPairings,
			Title:       "Weight-loss implication pairs",
			Description: "Word pairs that together imply a slimming or fat-reduction effect.",
			ForbiddenPairings: []model.Pairing{
				{Word1: "ลด", Word2: "ไขมัน"},
				{Word1: "ลด", Word2: "น้ำหนัก"},
				{Word1: "เผา", Word2: "ผลาญ"},
			},
			Examples: []string{"ทานแล้วช่วยลดไขมันหน้าท้อง"},
			Severity: model.SevHigh,
			IsActive: true,
		},
		{
			ID:          "default-violence",
			Category:    model.CategoryViolenceSafety,
			Title:       "Violence and dangerous acts",
			Description: "Depictions or instructions involving weapons, self-harm, or dangerous challenges.",
			ForbiddenWords: []string{
				"อาวุธปืน", "ทำร้ายตัวเอง", "ความรุนแรง",
			},
			Examples: []string{"ท้าเพื่อนทำชาเลนจ์อันตราย"},
			Severity: model.SevCritical,
			IsActive: true,
		},
		{
			ID:          "default-platforms",
			Category:    model.CategoryPlatformMentions,
			Title:       "Competing platform mentions",
			Description: "Naming rival platforms or steering viewers off-platform.",
			ForbiddenWords: []string{
				"ไปดูใน Facebook", "กดติดตามใน YouTube", "ทักไลน์มา",
			},
			Examples: []string{"สนใจสินค้าทักไลน์มาได้เลย"},
			Severity: model.SevMedium,
			IsActive: true,
		},
		{
			ID:          "default-beforeafter",
			Category:    model.CategoryBeforeAfter,
			Title:       "Before-after comparisons",
			Description: "Side-by-side result comparisons and timed transformation claims.",
			ForbiddenWords: []string{
				"ก่อน-หลัง", "before-after", "เห็นผลใน 7 วัน",
			},
			Examples: []string{"ดูภาพก่อน-หลังใช้เพียง 7 วัน"},
			Severity: model.SevMedium,
			IsActive: true,
		},
	}

	for i := range rules {
		rules[i].CreatedAt = now
		rules[i].UpdatedAt = now
	}
	return rules
}
