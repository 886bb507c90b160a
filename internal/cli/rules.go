package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/copywatch/internal/model"
)

var (
	rulesFormat   string
	rulesCategory string

	addCategory    string
	addTitle       string
	addDescription string
	addWords       []string
	addPairings    []string
	addExamples    []string
	addSeverity    string
	addInactive    bool
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesShowCmd, rulesAddCmd, rulesRmCmd, rulesSearchCmd)

	rulesCmd.PersistentFlags().StringVarP(&rulesFormat, "format", "f", "text", "Output format (text|json)")
	rulesListCmd.Flags().StringVar(&rulesCategory, "category", "", "Filter by category")

	rulesAddCmd.Flags().StringVar(&addCategory, "category", "other", "Rule category")
	rulesAddCmd.Flags().StringVar(&addTitle, "title", "", "Rule title (required)")
	rulesAddCmd.Flags().StringVar(&addDescription, "description", "", "What the rule forbids and why")
	rulesAddCmd.Flags().StringSliceVar(&addWords, "word", nil, "Forbidden word (repeatable)")
	rulesAddCmd.Flags().StringSliceVar(&addPairings, "pairing", nil, "Forbidden pairing as word1+word2 (repeatable)")
	rulesAddCmd.Flags().StringSliceVar(&addExamples, "example", nil, "Example violating text (repeatable)")
	rulesAddCmd.Flags().StringVar(&addSeverity, "severity", "medium", "Severity (low|medium|high|critical)")
	rulesAddCmd.Flags().BoolVar(&addInactive, "inactive", false, "Create the rule disabled")
	rulesAddCmd.MarkFlagRequired("title")
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the content-policy rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules, optionally filtered by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		var rules []model.Rule
		if rulesCategory != "" {
			cat := model.Category(rulesCategory)
			if !cat.Valid() {
				return fmt.Errorf("unknown category %q", rulesCategory)
			}
			rules = eng.Store.ByCategory(cat)
		} else {
			rules = eng.Store.Load()
		}

		printRules(rules)
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single rule in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		for _, r := range eng.Store.Load() {
			if r.ID == args[0] {
				out, _ := json.MarshalIndent(r, "", "  ")
				fmt.Println(string(out))
				return nil
			}
		}
		return fmt.Errorf("rule not found: %s", args[0])
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		pairings, err := parsePairings(addPairings)
		if err != nil {
			return err
		}

		rule := model.Rule{
			Category:          model.Category(addCategory),
			Title:             addTitle,
			Description:       addDescription,
			ForbiddenWords:    addWords,
			ForbiddenPairings: pairings,
			Examples:          addExamples,
			Severity:          model.Severity(addSeverity),
			IsActive:          !addInactive,
		}
		if err := rule.Validate(); err != nil {
			return err
		}

		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		added := eng.Store.Add(rule)
		fmt.Printf("added %s\n", added.ID)
		return nil
	},
}

var rulesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		if !eng.Store.Delete(args[0]) {
			return fmt.Errorf("rule not found: %s", args[0])
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var rulesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search rules by title, description, words, or examples",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(context.Background())
		if err != nil {
			return err
		}
		defer eng.Close()

		printRules(eng.Store.Search(args[0]))
		return nil
	},
}

func printRules(rules []model.Rule) {
	if rulesFormat == "json" {
		out, _ := json.MarshalIndent(rules, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(rules) == 0 {
		fmt.Println("no rules")
		return
	}
	for _, r := range rules {
		state := "active"
		if !r.IsActive {
			state = "inactive"
		}
		fmt.Printf("%-22s %-20s %-8s %-8s %s\n", r.ID, r.Category, r.Severity, state, r.Title)
	}
}

// parsePairings turns "word1+word2" flags into pairings.
func parsePairings(raw []string) ([]model.Pairing, error) {
	var out []model.Pairing
	for _, p := range raw {
		w1, w2, ok := strings.Cut(p, "+")
		if !ok {
			return nil, fmt.Errorf("invalid pairing %q: expected word1+word2", p)
		}
		w1, w2 = strings.TrimSpace(w1), strings.TrimSpace(w2)
		if w1 == "" || w2 == "" {
			return nil, fmt.Errorf("invalid pairing %q: both words must be non-empty", p)
		}
		out = append(out, model.Pairing{Word1: w1, Word2: w2})
	}
	return out, nil
}
