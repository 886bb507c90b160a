package rulestore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newRuleID generates a unique rule ID. Random hex, so sequential calls
// within one process cannot collide.
func newRuleID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if crypto/rand fails
		return fmt.Sprintf("rule-%x", time.Now().UnixNano())
	}
	return "rule-" + hex.EncodeToString(b)
}
